package ternak

import (
	"fmt"
	"strings"

	"ternak-backend/internal/allocation"
	"ternak-backend/internal/audit"
	"ternak-backend/internal/database"
	"ternak-backend/internal/kandang"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateKematianRequest struct {
	KandangID        *uint  `json:"kandangId"`
	TanggalKematian  string `json:"tanggalKematian"` // "2025-12-09", kosong = hari ini
	JumlahKematian   int    `json:"jumlahKematian"`
	PenyebabKematian string `json:"penyebabKematian"`
	Mode             string `json:"mode"` // "auto-fifo" | "manual-split"
	// manual-split saja:
	JumlahDariAyamLama *int `json:"jumlahDariAyamLama"`
	JumlahDariAyamBaru *int `json:"jumlahDariAyamBaru"`
}

type KematianResponse struct {
	ID               uint   `json:"id"`
	KandangID        uint   `json:"kandangId"`
	AyamMasukID      uint   `json:"ayamMasukId"`
	TanggalKematian  string `json:"tanggalKematian"`
	JumlahKematian   int    `json:"jumlahKematian"`
	PenyebabKematian string `json:"penyebabKematian"`
	CreatedAt        string `json:"createdAt"`
}

// POST /api/kematian
// Satu aksi pencatatan bisa menghasilkan beberapa record kematian (satu per
// batch) sesuai rencana alokasi. Response memuat seluruh record yang dibuat
// sebagai bukti alokasi per batch.
func CreateKematianHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateKematianRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.JumlahKematian <= 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "jumlahKematian harus lebih dari 0")
		}
		body.PenyebabKematian = strings.TrimSpace(body.PenyebabKematian)
		if body.PenyebabKematian == "" {
			return fiber.NewError(fiber.StatusBadRequest, "penyebabKematian wajib diisi")
		}

		kandangID, err := resolveKandangID(c, body.KandangID)
		if err != nil {
			return err
		}

		var kdg models.Kandang
		if err := database.DB.First(&kdg, "id = ?", kandangID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kandang tidak ditemukan (ID: %d)", kandangID))
		}

		tanggal, err := parseTanggal(body.TanggalKematian)
		if err != nil {
			return err
		}

		mode, err := parseMode(body.Mode)
		if err != nil {
			return err
		}

		var split *allocation.ManualSplit
		if mode == allocation.ModeManualSplit {
			if body.JumlahDariAyamLama == nil || body.JumlahDariAyamBaru == nil {
				return fiber.NewError(fiber.StatusBadRequest,
					"jumlahDariAyamLama dan jumlahDariAyamBaru wajib diisi untuk manual-split")
			}
			split = &allocation.ManualSplit{
				DariAyamLama: *body.JumlahDariAyamLama,
				DariAyamBaru: *body.JumlahDariAyamBaru,
			}
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var created []models.Kematian

		// Ledger direkonstruksi dan divalidasi ulang di dalam transaksi:
		// stok bisa berubah sejak klien mengambil data (pencatatan paralel),
		// jadi pengecekan di sinilah yang otoritatif.
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			ledger, _, lerr := kandang.LoadLedger(tx, kandangID)
			if lerr != nil {
				return lerr
			}

			plan, perr := allocation.PlanAllocation(ledger, body.JumlahKematian, mode, split)
			if perr != nil {
				return allocationError(perr)
			}
			if res := allocation.Validate(plan, ledger); !res.OK {
				return allocationError(res.Errors[0])
			}

			for _, a := range plan.Alokasi {
				rec := models.Kematian{
					AyamMasukID:      a.AyamMasukID,
					KandangID:        kandangID,
					TanggalKematian:  tanggal,
					JumlahKematian:   a.Jumlah,
					PenyebabKematian: body.PenyebabKematian,
					DicatatOleh:      userID,
				}
				if err := tx.Create(&rec).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Record kematian gagal disimpan")
				}
				created = append(created, rec)
			}
			return nil
		})
		if txErr != nil {
			return txErr
		}

		for _, rec := range created {
			_ = audit.WriteLog(audit.LogOptions{
				KandangID:   &kandangID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "kematian",
				EntityID:    rec.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Kematian: %s - %d ekor (batch #%d, %s)", kdg.Nama, rec.JumlahKematian, rec.AyamMasukID, rec.PenyebabKematian),
				Before:      nil,
				After:       rec,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toKematianResponses(created))
	}
}

// GET /api/kematian?kandangId=1&dari=2025-01-01&sampai=2025-01-31
func ListKematianHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Kematian{})

		if kidStr := c.Query("kandangId"); kidStr != "" {
			var kid uint
			if _, err := fmt.Sscan(kidStr, &kid); err == nil && kid > 0 {
				dbq = dbq.Where("kandang_id = ?", kid)
			}
		}
		if dari := c.Query("dari"); dari != "" {
			d, err := parseTanggal(dari)
			if err != nil {
				return err
			}
			dbq = dbq.Where("tanggal_kematian >= ?", d)
		}
		if sampai := c.Query("sampai"); sampai != "" {
			d, err := parseTanggal(sampai)
			if err != nil {
				return err
			}
			dbq = dbq.Where("tanggal_kematian <= ?", d)
		}

		var list []models.Kematian
		if err := dbq.Order("tanggal_kematian DESC, id DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Data kematian gagal diambil")
		}

		return c.JSON(toKematianResponses(list))
	}
}

// DELETE /api/kematian/:id
func DeleteKematianHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.Kematian
		if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Record kematian tidak ditemukan")
		}

		if err := database.DB.Delete(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Record kematian gagal dihapus")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				KandangID:   &rec.KandangID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "kematian",
				EntityID:    rec.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Hapus kematian: %d ekor (batch #%d)", rec.JumlahKematian, rec.AyamMasukID),
				Before:      rec,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Record kematian dihapus"})
	}
}

func toKematianResponses(list []models.Kematian) []KematianResponse {
	res := make([]KematianResponse, 0, len(list))
	for _, k := range list {
		res = append(res, KematianResponse{
			ID:               k.ID,
			KandangID:        k.KandangID,
			AyamMasukID:      k.AyamMasukID,
			TanggalKematian:  k.TanggalKematian.Format("2006-01-02"),
			JumlahKematian:   k.JumlahKematian,
			PenyebabKematian: k.PenyebabKematian,
			CreatedAt:        k.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return res
}
