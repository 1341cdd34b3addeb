package allocation

import "fmt"

// Semua error di paket ini adalah kegagalan validasi lokal yang harus
// mencegah submit; tidak ada yang boleh di-retry otomatis. Pesan dalam
// bahasa Indonesia karena langsung ditampilkan sebagai error field di form.

type SplitSide string

const (
	SideAyamLama SplitSide = "ayamLama" // batch tertua
	SideAyamBaru SplitSide = "ayamBaru" // gabungan batch lainnya
)

// InvalidInputError: jumlah tidak positif atau input wajib kosong.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "input tidak valid: " + e.Reason
}

// InsufficientStockError: jumlah yang diminta melebihi total ayam hidup
// yang bisa dialokasikan.
type InsufficientStockError struct {
	Tersedia int
	Diminta  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("jumlah melebihi total ayam hidup (%d)", e.Tersedia)
}

// ExceedsLimitError: salah satu sisi manual-split melebihi stok sisinya.
type ExceedsLimitError struct {
	Side    SplitSide
	Limit   int
	Diminta int
}

func (e *ExceedsLimitError) Error() string {
	label := "batch tertua"
	if e.Side == SideAyamBaru {
		label = "batch lainnya"
	}
	return fmt.Sprintf("alokasi %s (%d) melebihi sisa ayam hidup %s (%d)",
		label, e.Diminta, label, e.Limit)
}

// SplitMismatchError: kedua sisi manual-split tidak berjumlah sama dengan
// total yang diminta.
type SplitMismatchError struct {
	TotalSplit   int
	TotalDiminta int
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("pembagian manual berjumlah %d, tidak sama dengan total %d",
		e.TotalSplit, e.TotalDiminta)
}
