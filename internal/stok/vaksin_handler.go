package stok

import (
	"fmt"
	"strings"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/classify"
	"ternak-backend/internal/config"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VaksinResponse struct {
	ID       uint               `json:"id"`
	Nama     string             `json:"nama"`
	StokUnit int                `json:"stokUnit"`
	Status   classify.StockTier `json:"status"`
}

type CreateVaksinRequest struct {
	Nama string `json:"nama"`
}

type VaksinTransaksiRequest struct {
	VaksinID   uint   `json:"vaksinId"`
	KandangID  *uint  `json:"kandangId"`
	Jenis      string `json:"jenis"` // "masuk" | "keluar"
	JumlahUnit int    `json:"jumlahUnit"`
	Tanggal    string `json:"tanggal"`
	Catatan    string `json:"catatan"`
}

type VaksinTransaksiResponse struct {
	ID          uint   `json:"id"`
	VaksinID    uint   `json:"vaksinId"`
	NamaVaksin  string `json:"namaVaksin"`
	Jenis       string `json:"jenis"`
	JumlahUnit  int    `json:"jumlahUnit"`
	Tanggal     string `json:"tanggal"`
	Catatan     string `json:"catatan"`
	StokSetelah int    `json:"stokSetelah"`
}

// POST /api/vaksin
func CreateVaksinHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVaksinRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Nama = strings.TrimSpace(body.Nama)
		if body.Nama == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama vaksin tidak boleh kosong")
		}

		vaksin := models.Vaksin{Nama: body.Nama}
		if err := database.DB.Create(&vaksin).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vaksin gagal dibuat")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":   vaksin.ID,
			"nama": vaksin.Nama,
		})
	}
}

// GET /api/vaksin
func ListVaksinHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Vaksin
		if err := database.DB.Order("nama ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vaksin gagal diambil")
		}

		res := make([]VaksinResponse, 0, len(list))
		for _, v := range list {
			res = append(res, VaksinResponse{
				ID:       v.ID,
				Nama:     v.Nama,
				StokUnit: v.StokUnit,
				Status:   cfg.Thresholds.VaccineStockTier(v.StokUnit),
			})
		}

		return c.JSON(res)
	}
}

// POST /api/vaksin-transaksi
func CreateVaksinTransaksiHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body VaksinTransaksiRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.VaksinID == 0 || body.JumlahUnit <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vaksinId wajib diisi, jumlahUnit harus lebih dari 0")
		}

		jenis := models.JenisTransaksi(body.Jenis)
		if jenis != models.TransaksiMasuk && jenis != models.TransaksiKeluar {
			return fiber.NewError(fiber.StatusBadRequest, "Jenis tidak valid (masuk|keluar)")
		}

		tanggal, err := parseTanggal(body.Tanggal)
		if err != nil {
			return err
		}

		userID, userName, err := getUserInfoForStok(c)
		if err != nil {
			return err
		}

		var trx models.VaksinTransaksi
		var stokSetelah int
		var namaVaksin string

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var vaksin models.Vaksin
			if err := tx.First(&vaksin, "id = ?", body.VaksinID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Vaksin tidak ditemukan")
			}
			namaVaksin = vaksin.Nama

			delta := body.JumlahUnit
			if jenis == models.TransaksiKeluar {
				delta = -delta
			}
			if vaksin.StokUnit+delta < 0 {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("Stok vaksin tidak cukup (tersedia %d unit)", vaksin.StokUnit))
			}

			if err := tx.Model(&models.Vaksin{}).Where("id = ?", vaksin.ID).
				Update("stok_unit", gorm.Expr("stok_unit + ?", delta)).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok vaksin gagal diperbarui")
			}
			stokSetelah = vaksin.StokUnit + delta

			trx = models.VaksinTransaksi{
				VaksinID:    vaksin.ID,
				KandangID:   body.KandangID,
				Jenis:       jenis,
				JumlahUnit:  body.JumlahUnit,
				Tanggal:     tanggal,
				Catatan:     body.Catatan,
				DicatatOleh: userID,
			}
			if err := tx.Create(&trx).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Transaksi vaksin gagal disimpan")
			}
			return nil
		})
		if txErr != nil {
			return txErr
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   body.KandangID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "vaksin_transaksi",
			EntityID:    trx.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Vaksin %s: %s %d unit", jenis, namaVaksin, body.JumlahUnit),
			Before:      nil,
			After:       trx,
		})

		return c.Status(fiber.StatusCreated).JSON(VaksinTransaksiResponse{
			ID:          trx.ID,
			VaksinID:    trx.VaksinID,
			NamaVaksin:  namaVaksin,
			Jenis:       string(trx.Jenis),
			JumlahUnit:  trx.JumlahUnit,
			Tanggal:     trx.Tanggal.Format("2006-01-02"),
			Catatan:     trx.Catatan,
			StokSetelah: stokSetelah,
		})
	}
}

// GET /api/vaksin-transaksi?vaksinId=1
func ListVaksinTransaksiHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.VaksinTransaksi{}).Preload("Vaksin")

		if vidStr := c.Query("vaksinId"); vidStr != "" {
			var vid uint
			if _, err := fmt.Sscan(vidStr, &vid); err == nil && vid > 0 {
				dbq = dbq.Where("vaksin_id = ?", vid)
			}
		}

		var list []models.VaksinTransaksi
		if err := dbq.Order("tanggal DESC, id DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaksi vaksin gagal diambil")
		}

		res := make([]VaksinTransaksiResponse, 0, len(list))
		for _, t := range list {
			res = append(res, VaksinTransaksiResponse{
				ID:         t.ID,
				VaksinID:   t.VaksinID,
				NamaVaksin: t.Vaksin.Nama,
				Jenis:      string(t.Jenis),
				JumlahUnit: t.JumlahUnit,
				Tanggal:    t.Tanggal.Format("2006-01-02"),
				Catatan:    t.Catatan,
			})
		}

		return c.JSON(res)
	}
}
