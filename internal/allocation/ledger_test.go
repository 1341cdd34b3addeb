package allocation

import (
	"testing"
	"time"

	"ternak-backend/internal/models"
)

func tgl(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestBuildLedger_SisaAyamHidup(t *testing.T) {
	masuk := []models.AyamMasuk{
		{ID: 1, KandangID: 1, TanggalMasuk: tgl(2025, 1, 10), JumlahMasuk: 1000},
		{ID: 2, KandangID: 1, TanggalMasuk: tgl(2025, 2, 15), JumlahMasuk: 500},
	}
	kematian := []models.Kematian{
		{ID: 1, AyamMasukID: 1, JumlahKematian: 30},
		{ID: 2, AyamMasukID: 1, JumlahKematian: 20},
		{ID: 3, AyamMasukID: 2, JumlahKematian: 5},
	}
	panen := []models.Panen{
		{ID: 1, AyamMasukID: 1, JumlahEkorPanen: 200},
	}

	ledger := BuildLedger(masuk, kematian, panen)

	if len(ledger) != 2 {
		t.Fatalf("panjang ledger = %d, want 2", len(ledger))
	}
	if ledger[0].SisaAyamHidup != 750 {
		t.Errorf("sisa batch 1 = %d, want 750", ledger[0].SisaAyamHidup)
	}
	if ledger[1].SisaAyamHidup != 495 {
		t.Errorf("sisa batch 2 = %d, want 495", ledger[1].SisaAyamHidup)
	}
}

func TestBuildLedger_UrutanFIFO(t *testing.T) {
	// Sengaja dimasukkan tidak berurutan.
	masuk := []models.AyamMasuk{
		{ID: 3, TanggalMasuk: tgl(2025, 3, 1), JumlahMasuk: 100},
		{ID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 100},
		{ID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 100},
	}

	ledger := BuildLedger(masuk, nil, nil)

	want := []uint{1, 2, 3}
	for i, id := range want {
		if ledger[i].AyamMasukID != id {
			t.Errorf("ledger[%d].AyamMasukID = %d, want %d", i, ledger[i].AyamMasukID, id)
		}
	}
}

func TestBuildLedger_TieBreakTanggalSama(t *testing.T) {
	// Dua batch masuk di tanggal yang sama: urutan harus stabil berdasarkan
	// ID menaik.
	masuk := []models.AyamMasuk{
		{ID: 7, TanggalMasuk: tgl(2025, 5, 1), JumlahMasuk: 50},
		{ID: 4, TanggalMasuk: tgl(2025, 5, 1), JumlahMasuk: 50},
	}

	ledger := BuildLedger(masuk, nil, nil)

	if ledger[0].AyamMasukID != 4 || ledger[1].AyamMasukID != 7 {
		t.Errorf("urutan tie-break = [%d, %d], want [4, 7]",
			ledger[0].AyamMasukID, ledger[1].AyamMasukID)
	}
}

func TestLedger_Allocatable(t *testing.T) {
	masuk := []models.AyamMasuk{
		{ID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 100},
		{ID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 100},
	}
	// Batch 1 habis total.
	panen := []models.Panen{
		{ID: 1, AyamMasukID: 1, JumlahEkorPanen: 100},
	}

	ledger := BuildLedger(masuk, nil, panen)

	if len(ledger) != 2 {
		t.Fatalf("ledger penuh harus tetap memuat batch habis, panjang = %d", len(ledger))
	}

	alloc := ledger.Allocatable()
	if len(alloc) != 1 {
		t.Fatalf("allocatable = %d batch, want 1", len(alloc))
	}
	if alloc[0].AyamMasukID != 2 {
		t.Errorf("allocatable memuat batch %d, want 2", alloc[0].AyamMasukID)
	}
	if got := alloc.TotalSisa(); got != 100 {
		t.Errorf("TotalSisa = %d, want 100", got)
	}
}

func TestNewLedger_SnapshotOtoritatif(t *testing.T) {
	// Snapshot membawa sisaAyamHidup yang sudah terhitung; tidak dihitung ulang.
	ledger := NewLedger([]LedgerEntry{
		{AyamMasukID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 500, SisaAyamHidup: 123},
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 1000, SisaAyamHidup: 950},
	})

	if ledger[0].AyamMasukID != 1 {
		t.Errorf("snapshot harus diurutkan FIFO, batch pertama = %d", ledger[0].AyamMasukID)
	}
	if ledger[0].SisaAyamHidup != 950 || ledger[1].SisaAyamHidup != 123 {
		t.Errorf("sisa snapshot berubah: %d, %d", ledger[0].SisaAyamHidup, ledger[1].SisaAyamHidup)
	}
}
