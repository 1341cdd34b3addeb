package models

import "time"

// Kematian: catatan kematian terhadap satu batch ayam. Satu aksi pencatatan
// bisa menghasilkan beberapa record (satu per batch) jika jumlahnya melewati
// lebih dari satu batch.
type Kematian struct {
	ID               uint `gorm:"primaryKey"`
	AyamMasukID      uint `gorm:"index;not null"`
	AyamMasuk        AyamMasuk
	KandangID        uint      `gorm:"index;not null"` // denormalisasi untuk query per kandang
	TanggalKematian  time.Time `gorm:"index;not null"`
	JumlahKematian   int       `gorm:"not null"`
	PenyebabKematian string    `gorm:"size:255;not null"`
	DicatatOleh      uint      // user id pencatat
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
