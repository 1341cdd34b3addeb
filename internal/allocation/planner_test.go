package allocation

import (
	"errors"
	"testing"
)

func ledgerDuaBatch(sisaLama, sisaBaru int) Ledger {
	return NewLedger([]LedgerEntry{
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 1000, SisaAyamHidup: sisaLama},
		{AyamMasukID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 500, SisaAyamHidup: sisaBaru},
	})
}

func totalAlokasi(p *Plan) int {
	total := 0
	for _, a := range p.Alokasi {
		total += a.Jumlah
	}
	return total
}

func TestPlanAllocation_AutoFIFO_SatuBatch(t *testing.T) {
	ledger := NewLedger([]LedgerEntry{
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 1000, SisaAyamHidup: 950},
	})

	plan, err := PlanAllocation(ledger, 10, ModeAutoFIFO, nil)
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}

	if len(plan.Alokasi) != 1 {
		t.Fatalf("jumlah alokasi = %d, want 1", len(plan.Alokasi))
	}
	if plan.Alokasi[0].AyamMasukID != 1 || plan.Alokasi[0].Jumlah != 10 {
		t.Errorf("alokasi = {%d, %d}, want {1, 10}",
			plan.Alokasi[0].AyamMasukID, plan.Alokasi[0].Jumlah)
	}
}

func TestPlanAllocation_AutoFIFO_Spillover(t *testing.T) {
	ledger := ledgerDuaBatch(5, 100)

	plan, err := PlanAllocation(ledger, 20, ModeAutoFIFO, nil)
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}

	if len(plan.Alokasi) != 2 {
		t.Fatalf("jumlah alokasi = %d, want 2", len(plan.Alokasi))
	}
	if plan.Alokasi[0].AyamMasukID != 1 || plan.Alokasi[0].Jumlah != 5 {
		t.Errorf("alokasi batch tertua = {%d, %d}, want {1, 5}",
			plan.Alokasi[0].AyamMasukID, plan.Alokasi[0].Jumlah)
	}
	if plan.Alokasi[1].AyamMasukID != 2 || plan.Alokasi[1].Jumlah != 15 {
		t.Errorf("alokasi batch berikutnya = {%d, %d}, want {2, 15}",
			plan.Alokasi[1].AyamMasukID, plan.Alokasi[1].Jumlah)
	}
}

func TestPlanAllocation_AutoFIFO_PrioritasBatchTertua(t *testing.T) {
	// Batch tertua harus dikonsumsi penuh sebelum menyentuh batch berikutnya.
	ledger := ledgerDuaBatch(50, 100)

	tests := []struct {
		diminta      int
		wantDariLama int
	}{
		{10, 10},
		{50, 50},
		{60, 50}, // tumpah ke batch berikutnya hanya setelah tertua habis
	}

	for _, tt := range tests {
		plan, err := PlanAllocation(ledger, tt.diminta, ModeAutoFIFO, nil)
		if err != nil {
			t.Fatalf("PlanAllocation(%d) gagal: %v", tt.diminta, err)
		}
		if plan.Alokasi[0].Jumlah != tt.wantDariLama {
			t.Errorf("diminta %d: alokasi dari batch tertua = %d, want %d",
				tt.diminta, plan.Alokasi[0].Jumlah, tt.wantDariLama)
		}
		if got := totalAlokasi(plan); got != tt.diminta {
			t.Errorf("diminta %d: total alokasi = %d (konservasi gagal)", tt.diminta, got)
		}
	}
}

func TestPlanAllocation_AutoFIFO_BatchHabisDilewati(t *testing.T) {
	ledger := NewLedger([]LedgerEntry{
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 100, SisaAyamHidup: 0},
		{AyamMasukID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 100, SisaAyamHidup: 80},
	})

	plan, err := PlanAllocation(ledger, 10, ModeAutoFIFO, nil)
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}
	if len(plan.Alokasi) != 1 || plan.Alokasi[0].AyamMasukID != 2 {
		t.Errorf("batch habis tidak boleh masuk plan: %+v", plan.Alokasi)
	}
}

func TestPlanAllocation_InsufficientStock(t *testing.T) {
	ledger := ledgerDuaBatch(60, 40) // total 100

	_, err := PlanAllocation(ledger, 150, ModeAutoFIFO, nil)

	var insErr *InsufficientStockError
	if !errors.As(err, &insErr) {
		t.Fatalf("error = %v, want InsufficientStockError", err)
	}
	if insErr.Tersedia != 100 {
		t.Errorf("Tersedia = %d, want 100", insErr.Tersedia)
	}
	if insErr.Diminta != 150 {
		t.Errorf("Diminta = %d, want 150", insErr.Diminta)
	}
}

func TestPlanAllocation_JumlahTidakPositif(t *testing.T) {
	ledger := ledgerDuaBatch(60, 40)

	for _, jumlah := range []int{0, -5} {
		_, err := PlanAllocation(ledger, jumlah, ModeAutoFIFO, nil)
		var invErr *InvalidInputError
		if !errors.As(err, &invErr) {
			t.Errorf("jumlah %d: error = %v, want InvalidInputError", jumlah, err)
		}
	}
}

func TestPlanAllocation_ManualSplit_Valid(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	plan, err := PlanAllocation(ledger, 70, ModeManualSplit,
		&ManualSplit{DariAyamLama: 20, DariAyamBaru: 50})
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}

	if got := totalAlokasi(plan); got != 70 {
		t.Errorf("total alokasi = %d, want 70", got)
	}
	if plan.Alokasi[0].AyamMasukID != 1 || plan.Alokasi[0].Jumlah != 20 {
		t.Errorf("alokasi batch tertua = %+v, want {1, 20}", plan.Alokasi[0])
	}
	if plan.Alokasi[1].AyamMasukID != 2 || plan.Alokasi[1].Jumlah != 50 {
		t.Errorf("alokasi batch lainnya = %+v, want {2, 50}", plan.Alokasi[1])
	}
}

func TestPlanAllocation_ManualSplit_Mismatch(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	_, err := PlanAllocation(ledger, 70, ModeManualSplit,
		&ManualSplit{DariAyamLama: 20, DariAyamBaru: 40})

	var mmErr *SplitMismatchError
	if !errors.As(err, &mmErr) {
		t.Fatalf("error = %v, want SplitMismatchError", err)
	}
	if mmErr.TotalSplit != 60 || mmErr.TotalDiminta != 70 {
		t.Errorf("mismatch = %d vs %d, want 60 vs 70", mmErr.TotalSplit, mmErr.TotalDiminta)
	}
}

func TestPlanAllocation_ManualSplit_MelebihiLimit(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	tests := []struct {
		name      string
		split     ManualSplit
		diminta   int
		wantSide  SplitSide
		wantLimit int
	}{
		{"sisi_tertua", ManualSplit{DariAyamLama: 31, DariAyamBaru: 10}, 41, SideAyamLama, 30},
		{"sisi_lainnya", ManualSplit{DariAyamLama: 10, DariAyamBaru: 71}, 81, SideAyamBaru, 70},
	}

	for _, tt := range tests {
		_, err := PlanAllocation(ledger, tt.diminta, ModeManualSplit, &tt.split)

		var exErr *ExceedsLimitError
		if !errors.As(err, &exErr) {
			t.Fatalf("%s: error = %v, want ExceedsLimitError", tt.name, err)
		}
		if exErr.Side != tt.wantSide {
			t.Errorf("%s: Side = %s, want %s", tt.name, exErr.Side, tt.wantSide)
		}
		if exErr.Limit != tt.wantLimit {
			t.Errorf("%s: Limit = %d, want %d", tt.name, exErr.Limit, tt.wantLimit)
		}
	}
}

func TestPlanAllocation_ManualSplit_SubAlokasiFIFO(t *testing.T) {
	// Porsi "batch lainnya" dibagi FIFO di antara batch non-tertua.
	ledger := NewLedger([]LedgerEntry{
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 100, SisaAyamHidup: 30},
		{AyamMasukID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 100, SisaAyamHidup: 25},
		{AyamMasukID: 3, TanggalMasuk: tgl(2025, 3, 1), JumlahMasuk: 100, SisaAyamHidup: 60},
	})

	plan, err := PlanAllocation(ledger, 50, ModeManualSplit,
		&ManualSplit{DariAyamLama: 10, DariAyamBaru: 40})
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}

	want := []Allocation{
		{AyamMasukID: 1, Jumlah: 10},
		{AyamMasukID: 2, Jumlah: 25},
		{AyamMasukID: 3, Jumlah: 15},
	}
	if len(plan.Alokasi) != len(want) {
		t.Fatalf("jumlah alokasi = %d, want %d", len(plan.Alokasi), len(want))
	}
	for i, w := range want {
		if plan.Alokasi[i] != w {
			t.Errorf("alokasi[%d] = %+v, want %+v", i, plan.Alokasi[i], w)
		}
	}
}

func TestPlanAllocation_ManualSplit_SatuBatch(t *testing.T) {
	// Dengan satu batch, batas sisi lainnya 0; split dengan sisi baru 0 tetap sah.
	ledger := NewLedger([]LedgerEntry{
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 100, SisaAyamHidup: 80},
	})

	plan, err := PlanAllocation(ledger, 15, ModeManualSplit,
		&ManualSplit{DariAyamLama: 15, DariAyamBaru: 0})
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}
	if len(plan.Alokasi) != 1 || plan.Alokasi[0].Jumlah != 15 {
		t.Errorf("alokasi = %+v, want [{1 15}]", plan.Alokasi)
	}

	_, err = PlanAllocation(ledger, 15, ModeManualSplit,
		&ManualSplit{DariAyamLama: 10, DariAyamBaru: 5})
	var exErr *ExceedsLimitError
	if !errors.As(err, &exErr) || exErr.Side != SideAyamBaru {
		t.Errorf("sisi baru pada satu batch harus melebihi limit 0, error = %v", err)
	}
}

func TestPlanAllocation_Konservasi(t *testing.T) {
	ledger := NewLedger([]LedgerEntry{
		{AyamMasukID: 1, TanggalMasuk: tgl(2025, 1, 1), JumlahMasuk: 100, SisaAyamHidup: 17},
		{AyamMasukID: 2, TanggalMasuk: tgl(2025, 2, 1), JumlahMasuk: 100, SisaAyamHidup: 43},
		{AyamMasukID: 3, TanggalMasuk: tgl(2025, 3, 1), JumlahMasuk: 100, SisaAyamHidup: 29},
	})

	for jumlah := 1; jumlah <= ledger.TotalSisa(); jumlah++ {
		plan, err := PlanAllocation(ledger, jumlah, ModeAutoFIFO, nil)
		if err != nil {
			t.Fatalf("PlanAllocation(%d) gagal: %v", jumlah, err)
		}
		if got := totalAlokasi(plan); got != jumlah {
			t.Fatalf("konservasi gagal: diminta %d, teralokasi %d", jumlah, got)
		}
		for _, a := range plan.Alokasi {
			entry, _ := ledger.Entry(a.AyamMasukID)
			if a.Jumlah > entry.SisaAyamHidup {
				t.Fatalf("batch %d: alokasi %d > sisa %d", a.AyamMasukID, a.Jumlah, entry.SisaAyamHidup)
			}
		}
	}
}

func TestPlanAllocation_Idempoten(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	plan1, err1 := PlanAllocation(ledger, 50, ModeAutoFIFO, nil)
	plan2, err2 := PlanAllocation(ledger, 50, ModeAutoFIFO, nil)
	if err1 != nil || err2 != nil {
		t.Fatalf("PlanAllocation gagal: %v %v", err1, err2)
	}
	if len(plan1.Alokasi) != len(plan2.Alokasi) {
		t.Fatalf("hasil berbeda antar pemanggilan")
	}
	for i := range plan1.Alokasi {
		if plan1.Alokasi[i] != plan2.Alokasi[i] {
			t.Errorf("alokasi[%d] berbeda: %+v vs %+v", i, plan1.Alokasi[i], plan2.Alokasi[i])
		}
	}
}
