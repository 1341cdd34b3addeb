package allocation

// ValidationResult: hasil pemeriksaan akhir sebuah Plan sebelum disubmit.
type ValidationResult struct {
	OK     bool    `json:"ok"`
	Errors []error `json:"-"`
}

// Validate memeriksa ulang constraint planner terhadap ledger, independen
// dari bagaimana plan dibuat (lapisan pengaman terhadap bug di pemanggil).
// Murni dan sinkron; error memakai taksonomi yang sama dengan planner.
func Validate(plan *Plan, ledger Ledger) ValidationResult {
	var errs []error

	if plan == nil {
		errs = append(errs, &InvalidInputError{Reason: "plan kosong"})
		return ValidationResult{OK: false, Errors: errs}
	}
	if plan.JumlahDiminta <= 0 {
		errs = append(errs, &InvalidInputError{Reason: "jumlah harus lebih dari 0"})
	}

	alloc := ledger.Allocatable()
	if tersedia := alloc.TotalSisa(); plan.JumlahDiminta > tersedia {
		errs = append(errs, &InsufficientStockError{Tersedia: tersedia, Diminta: plan.JumlahDiminta})
	}

	total := 0
	for _, a := range plan.Alokasi {
		total += a.Jumlah

		entry, ok := alloc.Entry(a.AyamMasukID)
		if !ok {
			errs = append(errs, &InvalidInputError{
				Reason: "alokasi mereferensikan batch yang tidak tersedia",
			})
			continue
		}
		if a.Jumlah <= 0 {
			errs = append(errs, &InvalidInputError{Reason: "alokasi per batch harus lebih dari 0"})
			continue
		}
		if a.Jumlah > entry.SisaAyamHidup {
			side := SideAyamBaru
			if len(alloc) > 0 && alloc[0].AyamMasukID == a.AyamMasukID {
				side = SideAyamLama
			}
			errs = append(errs, &ExceedsLimitError{
				Side:    side,
				Limit:   entry.SisaAyamHidup,
				Diminta: a.Jumlah,
			})
		}
	}

	if total != plan.JumlahDiminta {
		errs = append(errs, &SplitMismatchError{TotalSplit: total, TotalDiminta: plan.JumlahDiminta})
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}
