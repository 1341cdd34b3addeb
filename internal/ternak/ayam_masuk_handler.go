package ternak

import (
	"fmt"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/database"
	"ternak-backend/internal/kandang"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAyamMasukRequest struct {
	KandangID    *uint  `json:"kandangId"`
	TanggalMasuk string `json:"tanggalMasuk"` // "2025-12-09"
	JumlahMasuk  int    `json:"jumlahMasuk"`
}

type AyamMasukResponse struct {
	ID            uint   `json:"id"`
	KandangID     uint   `json:"kandangId"`
	NamaKandang   string `json:"namaKandang"`
	TanggalMasuk  string `json:"tanggalMasuk"`
	JumlahMasuk   int    `json:"jumlahMasuk"`
	SisaAyamHidup int    `json:"sisaAyamHidup"`
	CreatedAt     string `json:"createdAt"`
}

// POST /api/ayam-masuk
func CreateAyamMasukHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAyamMasukRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.JumlahMasuk <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "jumlahMasuk harus lebih dari 0")
		}

		kandangID, err := resolveKandangID(c, body.KandangID)
		if err != nil {
			return err
		}

		var kdg models.Kandang
		if err := database.DB.First(&kdg, "id = ?", kandangID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kandang tidak ditemukan (ID: %d)", kandangID))
		}

		tanggal, err := parseTanggal(body.TanggalMasuk)
		if err != nil {
			return err
		}

		// Cek kapasitas: populasi hidup + batch baru tidak boleh melebihi kapasitas
		ledger, _, err := kandang.LoadLedger(database.DB, kandangID)
		if err != nil {
			return err
		}
		if populasi := ledger.TotalSisa(); populasi+body.JumlahMasuk > kdg.Kapasitas {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Populasi akan melebihi kapasitas kandang (%d + %d > %d)",
					populasi, body.JumlahMasuk, kdg.Kapasitas))
		}

		entry := models.AyamMasuk{
			KandangID:    kandangID,
			TanggalMasuk: tanggal,
			JumlahMasuk:  body.JumlahMasuk,
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch ayam masuk gagal disimpan")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				KandangID:   &kandangID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ayam_masuk",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ayam masuk: %s + %d ekor", kdg.Nama, entry.JumlahMasuk),
				Before:      nil,
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(AyamMasukResponse{
			ID:            entry.ID,
			KandangID:     entry.KandangID,
			NamaKandang:   kdg.Nama,
			TanggalMasuk:  entry.TanggalMasuk.Format("2006-01-02"),
			JumlahMasuk:   entry.JumlahMasuk,
			SisaAyamHidup: entry.JumlahMasuk,
			CreatedAt:     entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/ayam-masuk?kandangId=1
func ListAyamMasukHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kidStr := c.Query("kandangId")
		if kidStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "kandangId wajib diisi")
		}
		var kandangID uint
		if _, err := fmt.Sscan(kidStr, &kandangID); err != nil || kandangID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "kandangId tidak valid")
		}

		var kdg models.Kandang
		if err := database.DB.First(&kdg, "id = ?", kandangID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kandang tidak ditemukan")
		}

		ledger, _, err := kandang.LoadLedger(database.DB, kandangID)
		if err != nil {
			return err
		}

		var entries []models.AyamMasuk
		if err := database.DB.
			Where("kandang_id = ?", kandangID).
			Order("tanggal_masuk ASC, id ASC").
			Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Batch gagal diambil")
		}

		res := make([]AyamMasukResponse, 0, len(entries))
		for _, e := range entries {
			sisa := 0
			if le, ok := ledger.Entry(e.ID); ok {
				sisa = le.SisaAyamHidup
			}
			res = append(res, AyamMasukResponse{
				ID:            e.ID,
				KandangID:     e.KandangID,
				NamaKandang:   kdg.Nama,
				TanggalMasuk:  e.TanggalMasuk.Format("2006-01-02"),
				JumlahMasuk:   e.JumlahMasuk,
				SisaAyamHidup: sisa,
				CreatedAt:     e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
