package stok

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// parseTanggal menerima "YYYY-MM-DD"; string kosong berarti hari ini.
func parseTanggal(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Format tanggal tidak valid (YYYY-MM-DD)")
	}
	return t, nil
}
