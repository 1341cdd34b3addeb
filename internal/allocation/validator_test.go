package allocation

import (
	"errors"
	"testing"
)

func TestValidate_PlanValid(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	plan, err := PlanAllocation(ledger, 70, ModeManualSplit,
		&ManualSplit{DariAyamLama: 20, DariAyamBaru: 50})
	if err != nil {
		t.Fatalf("PlanAllocation gagal: %v", err)
	}

	res := Validate(plan, ledger)
	if !res.OK {
		t.Errorf("plan valid ditolak: %v", res.Errors)
	}
}

func TestValidate_PlanNil(t *testing.T) {
	res := Validate(nil, ledgerDuaBatch(30, 70))
	if res.OK {
		t.Fatal("plan nil harus ditolak")
	}
	var invErr *InvalidInputError
	if !errors.As(res.Errors[0], &invErr) {
		t.Errorf("error = %v, want InvalidInputError", res.Errors[0])
	}
}

func TestValidate_TotalTidakSama(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	// Plan dirakit manual oleh pemanggil yang buggy: total alokasi 60 != 70.
	plan := &Plan{
		Mode:          ModeManualSplit,
		JumlahDiminta: 70,
		Alokasi: []Allocation{
			{AyamMasukID: 1, Jumlah: 20},
			{AyamMasukID: 2, Jumlah: 40},
		},
	}

	res := Validate(plan, ledger)
	if res.OK {
		t.Fatal("plan dengan total tidak sama harus ditolak")
	}

	found := false
	for _, e := range res.Errors {
		var mmErr *SplitMismatchError
		if errors.As(e, &mmErr) {
			found = true
			if mmErr.TotalSplit != 60 || mmErr.TotalDiminta != 70 {
				t.Errorf("mismatch = %d vs %d, want 60 vs 70", mmErr.TotalSplit, mmErr.TotalDiminta)
			}
		}
	}
	if !found {
		t.Errorf("SplitMismatchError tidak ditemukan di %v", res.Errors)
	}
}

func TestValidate_AlokasiMelebihiSisa(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	plan := &Plan{
		Mode:          ModeAutoFIFO,
		JumlahDiminta: 45,
		Alokasi: []Allocation{
			{AyamMasukID: 1, Jumlah: 35}, // sisa batch 1 hanya 30
			{AyamMasukID: 2, Jumlah: 10},
		},
	}

	res := Validate(plan, ledger)
	if res.OK {
		t.Fatal("alokasi melebihi sisa harus ditolak")
	}

	found := false
	for _, e := range res.Errors {
		var exErr *ExceedsLimitError
		if errors.As(e, &exErr) {
			found = true
			if exErr.Side != SideAyamLama || exErr.Limit != 30 {
				t.Errorf("ExceedsLimit = {%s, %d}, want {%s, 30}", exErr.Side, exErr.Limit, SideAyamLama)
			}
		}
	}
	if !found {
		t.Errorf("ExceedsLimitError tidak ditemukan di %v", res.Errors)
	}
}

func TestValidate_BatchTidakTersedia(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)

	plan := &Plan{
		Mode:          ModeAutoFIFO,
		JumlahDiminta: 10,
		Alokasi: []Allocation{
			{AyamMasukID: 99, Jumlah: 10}, // batch tidak ada di ledger
		},
	}

	res := Validate(plan, ledger)
	if res.OK {
		t.Fatal("referensi batch yang tidak ada harus ditolak")
	}
}

func TestValidate_MelebihiTotalTersedia(t *testing.T) {
	ledger := ledgerDuaBatch(60, 40)

	plan := &Plan{
		Mode:          ModeAutoFIFO,
		JumlahDiminta: 150,
		Alokasi:       []Allocation{{AyamMasukID: 1, Jumlah: 150}},
	}

	res := Validate(plan, ledger)
	if res.OK {
		t.Fatal("jumlah melebihi total tersedia harus ditolak")
	}

	found := false
	for _, e := range res.Errors {
		var insErr *InsufficientStockError
		if errors.As(e, &insErr) {
			found = true
			if insErr.Tersedia != 100 {
				t.Errorf("Tersedia = %d, want 100", insErr.Tersedia)
			}
		}
	}
	if !found {
		t.Errorf("InsufficientStockError tidak ditemukan di %v", res.Errors)
	}
}

func TestValidate_Idempoten(t *testing.T) {
	ledger := ledgerDuaBatch(30, 70)
	plan, _ := PlanAllocation(ledger, 50, ModeAutoFIFO, nil)

	res1 := Validate(plan, ledger)
	res2 := Validate(plan, ledger)
	if res1.OK != res2.OK || len(res1.Errors) != len(res2.Errors) {
		t.Error("Validate tidak idempoten untuk input yang sama")
	}
}
