package models

import "time"

type UserRole string

const (
	RolePetugas  UserRole = "petugas"
	RoleOperator UserRole = "operator"
	RolePemilik  UserRole = "pemilik"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	KandangID    *uint // hanya untuk petugas: kandang yang ditugaskan
	Kandang      *Kandang
	Nama         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
