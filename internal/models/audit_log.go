package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUndo   AuditAction = "undo"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	// Kandang mana? (nil untuk entity global seperti pakan/vaksin)
	KandangID *uint `json:"kandangId"`

	// Siapa yang melakukan?
	UserID   uint   `json:"userId"`
	UserName string `gorm:"size:100" json:"userName"` // nama user (denormalisasi)

	// Entity apa? (mis: "kematian", "panen", "ayam_masuk", "biaya")
	EntityType string `gorm:"size:50;index" json:"entityType"`
	EntityID   uint   `gorm:"index" json:"entityId"`

	Action AuditAction `gorm:"size:20" json:"action"`

	Description string `gorm:"size:255" json:"description"`

	// Kondisi sebelum dan sesudah (JSON)
	BeforeData string `gorm:"type:jsonb" json:"beforeData"`
	AfterData  string `gorm:"type:jsonb" json:"afterData"`

	// Apakah log ini hasil dari operasi undo
	Undone bool `json:"undone"`

	// Apakah log ini sudah di-undo
	IsUndone bool `gorm:"default:false" json:"isUndone"`

	UndoneBy *uint      `json:"undoneBy"`
	UndoneAt *time.Time `json:"undoneAt"`
}
