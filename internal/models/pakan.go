package models

import "time"

// Pakan: master data jenis pakan dengan stok berjalan (kg).
type Pakan struct {
	ID        uint    `gorm:"primaryKey"`
	Nama      string  `gorm:"size:100;not null;unique"`
	Jenis     string  `gorm:"size:50"` // starter / grower / finisher
	StokKg    float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type JenisTransaksi string

const (
	TransaksiMasuk  JenisTransaksi = "masuk"
	TransaksiKeluar JenisTransaksi = "keluar"
)

// PakanTransaksi: mutasi stok pakan (restock atau pemakaian).
type PakanTransaksi struct {
	ID          uint `gorm:"primaryKey"`
	PakanID     uint `gorm:"index;not null"`
	Pakan       Pakan
	KandangID   *uint          // pemakaian terkait kandang tertentu (opsional)
	Jenis       JenisTransaksi `gorm:"size:10;not null"`
	JumlahKg    float64        `gorm:"not null"`
	Tanggal     time.Time      `gorm:"index;not null"`
	Catatan     string         `gorm:"size:255"`
	DicatatOleh uint
	CreatedAt   time.Time
}
