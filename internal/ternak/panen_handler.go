package ternak

import (
	"fmt"

	"ternak-backend/internal/allocation"
	"ternak-backend/internal/audit"
	"ternak-backend/internal/database"
	"ternak-backend/internal/kandang"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatePanenRequest struct {
	KandangID       *uint           `json:"kandangId"`
	TanggalPanen    string          `json:"tanggalPanen"`
	JumlahEkorPanen int             `json:"jumlahEkorPanen"`
	BeratRataRata   decimal.Decimal `json:"beratRataRata"` // kg per ekor
	Mode            string          `json:"mode"`
	// manual-split saja:
	JumlahDariAyamLama *int `json:"jumlahDariAyamLama"`
	JumlahDariAyamBaru *int `json:"jumlahDariAyamBaru"`
}

type PanenResponse struct {
	ID              uint            `json:"id"`
	KandangID       uint            `json:"kandangId"`
	AyamMasukID     uint            `json:"ayamMasukId"`
	TanggalPanen    string          `json:"tanggalPanen"`
	JumlahEkorPanen int             `json:"jumlahEkorPanen"`
	BeratRataRata   decimal.Decimal `json:"beratRataRata"`
	TotalBeratKg    decimal.Decimal `json:"totalBeratKg"`
	CreatedAt       string          `json:"createdAt"`
}

// POST /api/panen
// Seperti kematian: satu aksi bisa menghasilkan beberapa record panen
// (satu per batch) sesuai rencana alokasi.
func CreatePanenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePanenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.JumlahEkorPanen <= 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "jumlahEkorPanen harus lebih dari 0")
		}
		if body.BeratRataRata.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "beratRataRata harus lebih dari 0")
		}

		kandangID, err := resolveKandangID(c, body.KandangID)
		if err != nil {
			return err
		}

		var kdg models.Kandang
		if err := database.DB.First(&kdg, "id = ?", kandangID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Kandang tidak ditemukan (ID: %d)", kandangID))
		}

		tanggal, err := parseTanggal(body.TanggalPanen)
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

		var created []models.Panen

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			ledger, _, lerr := kandang.LoadLedger(tx, kandangID)
			if lerr != nil {
				return lerr
			}

			plan, perr := allocation.PlanAllocation(ledger, body.JumlahEkorPanen, mode, split)
			if perr != nil {
				return allocationError(perr)
			}
			if res := allocation.Validate(plan, ledger); !res.OK {
				return allocationError(res.Errors[0])
			}

			for _, a := range plan.Alokasi {
				rec := models.Panen{
					AyamMasukID:     a.AyamMasukID,
					KandangID:       kandangID,
					TanggalPanen:    tanggal,
					JumlahEkorPanen: a.Jumlah,
					BeratRataRata:   body.BeratRataRata,
					DicatatOleh:     userID,
				}
				if err := tx.Create(&rec).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Record panen gagal disimpan")
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
				EntityType:  "panen",
				EntityID:    rec.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Panen: %s - %d ekor (batch #%d)", kdg.Nama, rec.JumlahEkorPanen, rec.AyamMasukID),
				Before:      nil,
				After:       rec,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toPanenResponses(created))
	}
}

// GET /api/panen?kandangId=1&dari=2025-01-01&sampai=2025-01-31
func ListPanenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Panen{})

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
			dbq = dbq.Where("tanggal_panen >= ?", d)
		}
		if sampai := c.Query("sampai"); sampai != "" {
			d, err := parseTanggal(sampai)
			if err != nil {
				return err
			}
			dbq = dbq.Where("tanggal_panen <= ?", d)
		}

		var list []models.Panen
		if err := dbq.Order("tanggal_panen DESC, id DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Data panen gagal diambil")
		}

		return c.JSON(toPanenResponses(list))
	}
}

// DELETE /api/panen/:id
func DeletePanenHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rec models.Panen
		if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Record panen tidak ditemukan")
		}

		if err := database.DB.Delete(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Record panen gagal dihapus")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				KandangID:   &rec.KandangID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "panen",
				EntityID:    rec.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Hapus panen: %d ekor (batch #%d)", rec.JumlahEkorPanen, rec.AyamMasukID),
				Before:      rec,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"message": "Record panen dihapus"})
	}
}

func toPanenResponses(list []models.Panen) []PanenResponse {
	res := make([]PanenResponse, 0, len(list))
	for _, p := range list {
		res = append(res, PanenResponse{
			ID:              p.ID,
			KandangID:       p.KandangID,
			AyamMasukID:     p.AyamMasukID,
			TanggalPanen:    p.TanggalPanen.Format("2006-01-02"),
			JumlahEkorPanen: p.JumlahEkorPanen,
			BeratRataRata:   p.BeratRataRata,
			TotalBeratKg:    p.BeratRataRata.Mul(decimal.NewFromInt(int64(p.JumlahEkorPanen))),
			CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return res
}
