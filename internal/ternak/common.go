package ternak

import (
	"errors"
	"time"

	"ternak-backend/internal/allocation"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Ambil user id + nama dari context (untuk audit log).
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Informasi user tidak ditemukan")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User tidak ditemukan")
	}

	return userID, user.Nama, nil
}

// Petugas terkunci ke kandang tugasnya; operator/pemilik memakai kandangId
// dari body.
func resolveKandangID(c *fiber.Ctx, bodyKandangID *uint) (uint, error) {
	role := c.Locals(auth.CtxUserRoleKey).(models.UserRole)

	if role == models.RolePetugas {
		kPtr, ok := c.Locals(auth.CtxKandangIDKey).(*uint)
		if !ok || kPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Petugas belum ditugaskan ke kandang")
		}
		if bodyKandangID != nil && *bodyKandangID != *kPtr {
			return 0, fiber.NewError(fiber.StatusForbidden, "Petugas hanya bisa mencatat untuk kandangnya sendiri")
		}
		return *kPtr, nil
	}

	if bodyKandangID == nil || *bodyKandangID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "kandangId wajib diisi")
	}
	return *bodyKandangID, nil
}

func parseTanggal(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
	}
	return d, nil
}

// Error validasi alokasi adalah kesalahan input user, bukan kegagalan server:
// 422 dengan pesan apa adanya supaya frontend bisa menampilkannya sebagai
// error field.
func allocationError(err error) error {
	var invErr *allocation.InvalidInputError
	var insErr *allocation.InsufficientStockError
	var exErr *allocation.ExceedsLimitError
	var mmErr *allocation.SplitMismatchError

	if errors.As(err, &invErr) || errors.As(err, &insErr) ||
		errors.As(err, &exErr) || errors.As(err, &mmErr) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Alokasi gagal dihitung")
}

func parseMode(s string) (allocation.Mode, error) {
	switch allocation.Mode(s) {
	case allocation.ModeAutoFIFO, allocation.ModeManualSplit:
		return allocation.Mode(s), nil
	case "":
		// default: FIFO otomatis
		return allocation.ModeAutoFIFO, nil
	default:
		return "", fiber.NewError(fiber.StatusBadRequest, "Mode tidak valid (auto-fifo|manual-split)")
	}
}
