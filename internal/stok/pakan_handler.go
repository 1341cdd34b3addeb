package stok

import (
	"fmt"
	"strings"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/classify"
	"ternak-backend/internal/config"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PakanResponse struct {
	ID     uint               `json:"id"`
	Nama   string             `json:"nama"`
	Jenis  string             `json:"jenis"`
	StokKg float64            `json:"stokKg"`
	Status classify.StockTier `json:"status"`
}

type CreatePakanRequest struct {
	Nama  string `json:"nama"`
	Jenis string `json:"jenis"`
}

type PakanTransaksiRequest struct {
	PakanID   uint    `json:"pakanId"`
	KandangID *uint   `json:"kandangId"`
	Jenis     string  `json:"jenis"` // "masuk" | "keluar"
	JumlahKg  float64 `json:"jumlahKg"`
	Tanggal   string  `json:"tanggal"`
	Catatan   string  `json:"catatan"`
}

type PakanTransaksiResponse struct {
	ID          uint    `json:"id"`
	PakanID     uint    `json:"pakanId"`
	NamaPakan   string  `json:"namaPakan"`
	Jenis       string  `json:"jenis"`
	JumlahKg    float64 `json:"jumlahKg"`
	Tanggal     string  `json:"tanggal"`
	Catatan     string  `json:"catatan"`
	StokSetelah float64 `json:"stokSetelah"`
}

func getUserInfoForStok(c *fiber.Ctx) (uint, string, error) {
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

// POST /api/pakan
func CreatePakanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePakanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Nama = strings.TrimSpace(body.Nama)
		if body.Nama == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama pakan tidak boleh kosong")
		}

		pakan := models.Pakan{Nama: body.Nama, Jenis: body.Jenis}
		if err := database.DB.Create(&pakan).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pakan gagal dibuat")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    pakan.ID,
			"nama":  pakan.Nama,
			"jenis": pakan.Jenis,
		})
	}
}

// GET /api/pakan
// Daftar pakan dengan stok berjalan dan status klasifikasinya.
func ListPakanHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Pakan
		if err := database.DB.Order("nama ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pakan gagal diambil")
		}

		res := make([]PakanResponse, 0, len(list))
		for _, p := range list {
			res = append(res, PakanResponse{
				ID:     p.ID,
				Nama:   p.Nama,
				Jenis:  p.Jenis,
				StokKg: p.StokKg,
				Status: cfg.Thresholds.FeedStockTier(p.StokKg),
			})
		}

		return c.JSON(res)
	}
}

// POST /api/pakan-transaksi
// Restock (masuk) atau pemakaian (keluar). Stok tidak boleh jadi negatif.
func CreatePakanTransaksiHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PakanTransaksiRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.PakanID == 0 || body.JumlahKg <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "pakanId wajib diisi, jumlahKg harus lebih dari 0")
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

		var trx models.PakanTransaksi
		var stokSetelah float64
		var namaPakan string

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var pakan models.Pakan
			if err := tx.First(&pakan, "id = ?", body.PakanID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Pakan tidak ditemukan")
			}
			namaPakan = pakan.Nama

			delta := body.JumlahKg
			if jenis == models.TransaksiKeluar {
				delta = -delta
			}
			if pakan.StokKg+delta < 0 {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("Stok pakan tidak cukup (tersedia %.2f kg)", pakan.StokKg))
			}

			if err := tx.Model(&models.Pakan{}).Where("id = ?", pakan.ID).
				Update("stok_kg", gorm.Expr("stok_kg + ?", delta)).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stok pakan gagal diperbarui")
			}
			stokSetelah = pakan.StokKg + delta

			trx = models.PakanTransaksi{
				PakanID:     pakan.ID,
				KandangID:   body.KandangID,
				Jenis:       jenis,
				JumlahKg:    body.JumlahKg,
				Tanggal:     tanggal,
				Catatan:     body.Catatan,
				DicatatOleh: userID,
			}
			if err := tx.Create(&trx).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Transaksi pakan gagal disimpan")
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
			EntityType:  "pakan_transaksi",
			EntityID:    trx.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Pakan %s: %s %.2f kg", jenis, namaPakan, body.JumlahKg),
			Before:      nil,
			After:       trx,
		})

		return c.Status(fiber.StatusCreated).JSON(PakanTransaksiResponse{
			ID:          trx.ID,
			PakanID:     trx.PakanID,
			NamaPakan:   namaPakan,
			Jenis:       string(trx.Jenis),
			JumlahKg:    trx.JumlahKg,
			Tanggal:     trx.Tanggal.Format("2006-01-02"),
			Catatan:     trx.Catatan,
			StokSetelah: stokSetelah,
		})
	}
}

// GET /api/pakan-transaksi?pakanId=1
func ListPakanTransaksiHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.PakanTransaksi{}).Preload("Pakan")

		if pidStr := c.Query("pakanId"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err == nil && pid > 0 {
				dbq = dbq.Where("pakan_id = ?", pid)
			}
		}

		var list []models.PakanTransaksi
		if err := dbq.Order("tanggal DESC, id DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Transaksi pakan gagal diambil")
		}

		res := make([]PakanTransaksiResponse, 0, len(list))
		for _, t := range list {
			res = append(res, PakanTransaksiResponse{
				ID:        t.ID,
				PakanID:   t.PakanID,
				NamaPakan: t.Pakan.Nama,
				Jenis:     string(t.Jenis),
				JumlahKg:  t.JumlahKg,
				Tanggal:   t.Tanggal.Format("2006-01-02"),
				Catatan:   t.Catatan,
			})
		}

		return c.JSON(res)
	}
}
