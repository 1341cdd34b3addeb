package models

import "time"

// Kandang: satu unit kandang yang menampung satu atau lebih batch ayam.
type Kandang struct {
	ID        uint   `gorm:"primaryKey"`
	Nama      string `gorm:"size:100;not null;unique"`
	Lokasi    string `gorm:"size:255"`
	Kapasitas int    `gorm:"not null"` // kapasitas maksimum ekor
	Deskripsi string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time

	AyamMasuk []AyamMasuk
}
