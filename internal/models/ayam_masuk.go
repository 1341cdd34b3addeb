package models

import "time"

// AyamMasuk: satu batch ayam yang masuk ke kandang pada tanggal tertentu.
// Record ini tidak pernah dihapus; batch yang habis (sisa 0) tetap tersimpan
// sebagai riwayat karena kematian/panen mereferensikannya.
type AyamMasuk struct {
	ID           uint `gorm:"primaryKey"`
	KandangID    uint `gorm:"index;not null"`
	Kandang      Kandang
	TanggalMasuk time.Time `gorm:"index;not null"` // tanggal batch masuk
	JumlahMasuk  int       `gorm:"not null"`       // jumlah ekor saat masuk
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
