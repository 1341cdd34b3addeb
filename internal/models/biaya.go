package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type KategoriBiaya string

const (
	BiayaPakan       KategoriBiaya = "pakan"
	BiayaVaksin      KategoriBiaya = "vaksin"
	BiayaOperasional KategoriBiaya = "operasional"
	BiayaLainnya     KategoriBiaya = "lainnya"
)

// Biaya: pengeluaran operasional, opsional terkait kandang tertentu.
type Biaya struct {
	ID          uint `gorm:"primaryKey"`
	KandangID   *uint
	Kandang     *Kandang
	Kategori    KategoriBiaya   `gorm:"size:20;not null"`
	Jumlah      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Tanggal     time.Time       `gorm:"index;not null"`
	Keterangan  string          `gorm:"size:255"`
	DicatatOleh uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
