package audit

import (
	"fmt"

	"ternak-backend/internal/auth"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"createdAt"`
	KandangID   *uint              `json:"kandangId"`
	UserID      uint               `json:"userId"`
	UserName    string             `json:"userName"`
	EntityType  string             `json:"entityType"`
	EntityID    uint               `json:"entityId"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"isUndone"`
	UndoneBy    *uint              `json:"undoneBy"`
	UndoneAt    *string            `json:"undoneAt"`
}

// GET /api/audit-logs?entityType=kematian&entityId=1&kandangId=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(auth.CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Informasi role tidak ditemukan")
		}

		// Petugas hanya melihat log kandangnya sendiri
		var kandangID *uint
		if role == models.RolePetugas {
			kVal := c.Locals(auth.CtxKandangIDKey)
			kPtr, ok := kVal.(*uint)
			if ok && kPtr != nil {
				kandangID = kPtr
			}
		} else {
			kidStr := c.Query("kandangId")
			if kidStr != "" {
				var kid uint
				if _, err := fmt.Sscan(kidStr, &kid); err == nil && kid > 0 {
					kandangID = &kid
				}
			}
		}

		entityType := c.Query("entityType")
		entityIDStr := c.Query("entityId")
		userIDStr := c.Query("userId")

		dbq := database.DB.Model(&models.AuditLog{})

		if kandangID != nil {
			dbq = dbq.Where("kandang_id = ?", *kandangID)
		}

		if userIDStr != "" {
			var uid uint
			if _, err := fmt.Sscan(userIDStr, &uid); err == nil && uid > 0 {
				dbq = dbq.Where("user_id = ?", uid)
			}
		}

		if entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}

		if entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Log gagal diambil")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			var undoneAtStr *string
			if log.UndoneAt != nil {
				formatted := log.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAtStr = &formatted
			}

			resp = append(resp, AuditLogResponse{
				ID:          log.ID,
				CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
				KandangID:   log.KandangID,
				UserID:      log.UserID,
				UserName:    log.UserName,
				EntityType:  log.EntityType,
				EntityID:    log.EntityID,
				Action:      log.Action,
				Description: log.Description,
				IsUndone:    log.IsUndone,
				UndoneBy:    log.UndoneBy,
				UndoneAt:    undoneAtStr,
			})
		}

		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logID uint
		if _, err := fmt.Sscan(c.Params("id"), &logID); err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID log tidak valid")
		}

		userIDVal := c.Locals(auth.CtxUserIDKey)
		userID, ok := userIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Informasi user tidak ditemukan")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User tidak ditemukan")
		}

		if err := UndoLog(logID, userID, user.Nama); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"message": "Operasi berhasil dibatalkan"})
	}
}
