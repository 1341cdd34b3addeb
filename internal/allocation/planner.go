package allocation

// Mode alokasi pengurangan terhadap batch.
type Mode string

const (
	ModeAutoFIFO    Mode = "auto-fifo"
	ModeManualSplit Mode = "manual-split"
)

// ManualSplit: pembagian dua arah antara batch tertua dan gabungan batch
// lainnya, sesuai form input pengguna.
type ManualSplit struct {
	DariAyamLama int `json:"jumlahDariAyamLama"`
	DariAyamBaru int `json:"jumlahDariAyamBaru"`
}

// Allocation: pengurangan terhadap satu batch.
type Allocation struct {
	AyamMasukID uint `json:"ayamMasukId"`
	Jumlah      int  `json:"jumlah"`
}

// Plan: rencana alokasi yang siap disubmit. Konstruksi in-memory, tidak
// pernah dipersist sebagai entity sendiri.
type Plan struct {
	Mode          Mode         `json:"mode"`
	JumlahDiminta int          `json:"jumlahDiminta"`
	Alokasi       []Allocation `json:"alokasi"`
}

// PlanAllocation mengubah "kurangi N ekor dari kandang" menjadi rencana
// pengurangan per batch. Untuk ModeManualSplit, split wajib diisi.
// Fungsi murni: pemanggil boleh memanggil ulang pada setiap perubahan input.
func PlanAllocation(ledger Ledger, jumlahDiminta int, mode Mode, split *ManualSplit) (*Plan, error) {
	if jumlahDiminta <= 0 {
		return nil, &InvalidInputError{Reason: "jumlah harus lebih dari 0"}
	}

	alloc := ledger.Allocatable()
	tersedia := alloc.TotalSisa()
	if jumlahDiminta > tersedia {
		return nil, &InsufficientStockError{Tersedia: tersedia, Diminta: jumlahDiminta}
	}

	switch mode {
	case ModeAutoFIFO:
		return &Plan{
			Mode:          ModeAutoFIFO,
			JumlahDiminta: jumlahDiminta,
			Alokasi:       greedyFIFO(alloc, jumlahDiminta),
		}, nil

	case ModeManualSplit:
		if split == nil {
			return nil, &InvalidInputError{Reason: "pembagian manual belum diisi"}
		}
		return planManualSplit(alloc, jumlahDiminta, *split)

	default:
		return nil, &InvalidInputError{Reason: "mode alokasi tidak dikenal"}
	}
}

// greedyFIFO mengonsumsi batch dari yang tertua sampai jumlah terpenuhi.
// Batch dengan alokasi nol tidak dimasukkan ke hasil.
func greedyFIFO(alloc Ledger, jumlah int) []Allocation {
	sisa := jumlah
	out := make([]Allocation, 0, len(alloc))
	for _, e := range alloc {
		if sisa == 0 {
			break
		}
		ambil := e.SisaAyamHidup
		if ambil > sisa {
			ambil = sisa
		}
		out = append(out, Allocation{AyamMasukID: e.AyamMasukID, Jumlah: ambil})
		sisa -= ambil
	}
	return out
}

func planManualSplit(alloc Ledger, jumlahDiminta int, split ManualSplit) (*Plan, error) {
	if split.DariAyamLama < 0 || split.DariAyamBaru < 0 {
		return nil, &InvalidInputError{Reason: "pembagian manual tidak boleh negatif"}
	}

	// Batas per sisi: sisa batch tertua vs total sisa batch lainnya.
	// UI hanya menawarkan manual-split saat ada >= 2 batch, tapi planner
	// tetap mendukung satu batch (batas sisi lainnya jadi 0).
	oldestLimit := 0
	if len(alloc) > 0 {
		oldestLimit = alloc[0].SisaAyamHidup
	}
	otherLimit := alloc.TotalSisa() - oldestLimit

	if split.DariAyamLama > oldestLimit {
		return nil, &ExceedsLimitError{Side: SideAyamLama, Limit: oldestLimit, Diminta: split.DariAyamLama}
	}
	if split.DariAyamBaru > otherLimit {
		return nil, &ExceedsLimitError{Side: SideAyamBaru, Limit: otherLimit, Diminta: split.DariAyamBaru}
	}
	if total := split.DariAyamLama + split.DariAyamBaru; total != jumlahDiminta {
		return nil, &SplitMismatchError{TotalSplit: total, TotalDiminta: jumlahDiminta}
	}

	out := make([]Allocation, 0, len(alloc))
	if split.DariAyamLama > 0 {
		out = append(out, Allocation{AyamMasukID: alloc[0].AyamMasukID, Jumlah: split.DariAyamLama})
	}
	if split.DariAyamBaru > 0 {
		// Porsi "batch lainnya" dibagi FIFO di antara batch non-tertua.
		out = append(out, greedyFIFO(alloc[1:], split.DariAyamBaru)...)
	}

	return &Plan{
		Mode:          ModeManualSplit,
		JumlahDiminta: jumlahDiminta,
		Alokasi:       out,
	}, nil
}
