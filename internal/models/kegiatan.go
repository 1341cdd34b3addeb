package models

import "time"

// Kegiatan: aktivitas operasional harian di kandang (pemberian pakan,
// vaksinasi, pembersihan, dll). Kegiatan pakan/vaksin mengurangi stok
// lewat transaksi stok yang dibuat handler.
type Kegiatan struct {
	ID            uint `gorm:"primaryKey"`
	KandangID     uint `gorm:"index;not null"`
	Kandang       Kandang
	PetugasID     uint `gorm:"index;not null"`
	JenisKegiatan string    `gorm:"size:50;not null"` // pemberian_pakan / vaksinasi / pembersihan / lainnya
	Tanggal       time.Time `gorm:"index;not null"`
	Catatan       string    `gorm:"size:500"`

	// Opsional: konsumsi stok yang menyertai kegiatan
	PakanID          *uint
	JumlahPakanKg    *float64
	VaksinID         *uint
	JumlahVaksinUnit *int

	CreatedAt time.Time
	UpdatedAt time.Time
}
