package allocation

import (
	"sort"
	"time"

	"ternak-backend/internal/models"
)

// LedgerEntry: satu batch ayam dengan sisa hidup berjalan.
type LedgerEntry struct {
	AyamMasukID   uint      `json:"ayamMasukId"`
	TanggalMasuk  time.Time `json:"tanggalMasuk"`
	JumlahMasuk   int       `json:"jumlahMasuk"`
	SisaAyamHidup int       `json:"sisaAyamHidup"`
}

// Ledger: daftar batch terurut dari yang tertua. Urutan ini yang menentukan
// semantik FIFO di planner; tie-break untuk tanggal masuk yang sama adalah
// ID batch menaik (ID auto-increment sehingga deterministik).
type Ledger []LedgerEntry

// BuildLedger menurunkan sisa ayam hidup per batch dari tiga aliran record:
// ayam masuk, kematian, dan panen. Batch yang sudah habis tetap masuk ledger
// agar tersedia untuk pelaporan; gunakan Allocatable untuk alokasi.
func BuildLedger(masuk []models.AyamMasuk, kematian []models.Kematian, panen []models.Panen) Ledger {
	matiPerBatch := make(map[uint]int, len(kematian))
	for _, k := range kematian {
		matiPerBatch[k.AyamMasukID] += k.JumlahKematian
	}
	panenPerBatch := make(map[uint]int, len(panen))
	for _, p := range panen {
		panenPerBatch[p.AyamMasukID] += p.JumlahEkorPanen
	}

	ledger := make(Ledger, 0, len(masuk))
	for _, m := range masuk {
		ledger = append(ledger, LedgerEntry{
			AyamMasukID:   m.ID,
			TanggalMasuk:  m.TanggalMasuk,
			JumlahMasuk:   m.JumlahMasuk,
			SisaAyamHidup: m.JumlahMasuk - matiPerBatch[m.ID] - panenPerBatch[m.ID],
		})
	}

	ledger.sortFIFO()
	return ledger
}

// NewLedger membangun ledger dari snapshot yang sudah membawa sisa ayam hidup
// (mis. DTO backend lain dengan sisaAyamHidup terhitung); nilai tersebut
// dianggap otoritatif dan tidak dihitung ulang.
func NewLedger(entries []LedgerEntry) Ledger {
	ledger := make(Ledger, len(entries))
	copy(ledger, entries)
	ledger.sortFIFO()
	return ledger
}

func (l Ledger) sortFIFO() {
	sort.Slice(l, func(i, j int) bool {
		if l[i].TanggalMasuk.Equal(l[j].TanggalMasuk) {
			return l[i].AyamMasukID < l[j].AyamMasukID
		}
		return l[i].TanggalMasuk.Before(l[j].TanggalMasuk)
	})
}

// Allocatable mengembalikan ledger tanpa batch yang sudah habis.
func (l Ledger) Allocatable() Ledger {
	out := make(Ledger, 0, len(l))
	for _, e := range l {
		if e.SisaAyamHidup > 0 {
			out = append(out, e)
		}
	}
	return out
}

// TotalSisa menjumlahkan sisa ayam hidup seluruh batch pada ledger.
func (l Ledger) TotalSisa() int {
	total := 0
	for _, e := range l {
		total += e.SisaAyamHidup
	}
	return total
}

// Entry mencari batch berdasarkan ID.
func (l Ledger) Entry(ayamMasukID uint) (LedgerEntry, bool) {
	for _, e := range l {
		if e.AyamMasukID == ayamMasukID {
			return e, true
		}
	}
	return LedgerEntry{}, false
}
