package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Panen: catatan panen terhadap satu batch ayam (untuk dijual/diproses).
type Panen struct {
	ID              uint `gorm:"primaryKey"`
	AyamMasukID     uint `gorm:"index;not null"`
	AyamMasuk       AyamMasuk
	KandangID       uint            `gorm:"index;not null"`
	TanggalPanen    time.Time       `gorm:"index;not null"`
	JumlahEkorPanen int             `gorm:"not null"`
	BeratRataRata   decimal.Decimal `gorm:"type:decimal(10,2);not null"` // kg per ekor
	DicatatOleh     uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
