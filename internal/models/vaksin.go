package models

import "time"

// Vaksin: master data vaksin dengan stok berjalan (unit/dosis).
type Vaksin struct {
	ID        uint   `gorm:"primaryKey"`
	Nama      string `gorm:"size:100;not null;unique"`
	StokUnit  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VaksinTransaksi: mutasi stok vaksin (restock atau pemakaian).
type VaksinTransaksi struct {
	ID          uint `gorm:"primaryKey"`
	VaksinID    uint `gorm:"index;not null"`
	Vaksin      Vaksin
	KandangID   *uint
	Jenis       JenisTransaksi `gorm:"size:10;not null"`
	JumlahUnit  int            `gorm:"not null"`
	Tanggal     time.Time      `gorm:"index;not null"`
	Catatan     string         `gorm:"size:255"`
	DicatatOleh uint
	CreatedAt   time.Time
}
