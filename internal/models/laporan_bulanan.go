package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LaporanBulanan: rekap bulanan yang disimpan (dibuat pemilik, dipakai
// untuk ekspor Excel). KandangID nil berarti rekap seluruh kandang.
type LaporanBulanan struct {
	ID        uint `gorm:"primaryKey"`
	KandangID *uint
	Kandang   *Kandang
	Tahun     int `gorm:"not null;index:idx_laporan_periode"`
	Bulan     int `gorm:"not null;index:idx_laporan_periode"`

	TotalAyamMasuk      int             `gorm:"not null"`
	TotalKematian       int             `gorm:"not null"`
	TotalPanen          int             `gorm:"not null"`
	PersentaseKematian  float64         `gorm:"not null"`
	TotalBeratPanenKg   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalBiaya          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Catatan             string          `gorm:"size:500"`

	DibuatOleh uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
