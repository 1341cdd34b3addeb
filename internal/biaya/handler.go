package biaya

import (
	"fmt"
	"time"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateBiayaRequest struct {
	KandangID  *uint  `json:"kandangId"`
	Kategori   string `json:"kategori"`
	Jumlah     string `json:"jumlah"` // decimal string, contoh "150000.50"
	Tanggal    string `json:"tanggal"`
	Keterangan string `json:"keterangan"`
}

type BiayaResponse struct {
	ID          uint   `json:"id"`
	KandangID   *uint  `json:"kandangId,omitempty"`
	NamaKandang string `json:"namaKandang,omitempty"`
	Kategori    string `json:"kategori"`
	Jumlah      string `json:"jumlah"`
	Tanggal     string `json:"tanggal"`
	Keterangan  string `json:"keterangan"`
}

type RingkasanBiayaResponse struct {
	Bulan       string            `json:"bulan"` // "2025-08"
	Total       string            `json:"total"`
	PerKategori map[string]string `json:"perKategori"`
}

var validKategori = map[models.KategoriBiaya]bool{
	models.BiayaPakan:       true,
	models.BiayaVaksin:      true,
	models.BiayaOperasional: true,
	models.BiayaLainnya:     true,
}

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

// POST /api/biaya
func CreateBiayaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBiayaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		kategori := models.KategoriBiaya(body.Kategori)
		if !validKategori[kategori] {
			return fiber.NewError(fiber.StatusBadRequest,
				"Kategori tidak valid (pakan|vaksin|operasional|lainnya)")
		}

		jumlah, err := decimal.NewFromString(body.Jumlah)
		if err != nil || jumlah.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "Jumlah harus angka lebih dari 0")
		}

		var tanggal time.Time
		if body.Tanggal == "" {
			now := time.Now()
			tanggal = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		} else {
			tanggal, err = time.Parse("2006-01-02", body.Tanggal)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
			}
		}

		if body.KandangID != nil {
			var kandang models.Kandang
			if err := database.DB.First(&kandang, "id = ?", *body.KandangID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kandang tidak ditemukan")
			}
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		biaya := models.Biaya{
			KandangID:   body.KandangID,
			Kategori:    kategori,
			Jumlah:      jumlah,
			Tanggal:     tanggal,
			Keterangan:  body.Keterangan,
			DicatatOleh: userID,
		}
		if err := database.DB.Create(&biaya).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Biaya gagal disimpan")
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   body.KandangID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "biaya",
			EntityID:    biaya.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Biaya %s sebesar %s", kategori, jumlah.StringFixed(2)),
			Before:      nil,
			After:       biaya,
		})

		return c.Status(fiber.StatusCreated).JSON(toBiayaResponse(biaya, ""))
	}
}

// GET /api/biaya?kandangId=&kategori=&dari=&sampai=
func ListBiayaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Biaya{}).Preload("Kandang")

		if kidStr := c.Query("kandangId"); kidStr != "" {
			var kid uint
			if _, err := fmt.Sscan(kidStr, &kid); err == nil && kid > 0 {
				dbq = dbq.Where("kandang_id = ?", kid)
			}
		}
		if kat := c.Query("kategori"); kat != "" {
			dbq = dbq.Where("kategori = ?", kat)
		}
		if dari := c.Query("dari"); dari != "" {
			if d, err := time.Parse("2006-01-02", dari); err == nil {
				dbq = dbq.Where("tanggal >= ?", d)
			}
		}
		if sampai := c.Query("sampai"); sampai != "" {
			if d, err := time.Parse("2006-01-02", sampai); err == nil {
				dbq = dbq.Where("tanggal <= ?", d)
			}
		}

		var list []models.Biaya
		if err := dbq.Order("tanggal DESC, id DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Biaya gagal diambil")
		}

		res := make([]BiayaResponse, 0, len(list))
		for _, b := range list {
			nama := ""
			if b.Kandang != nil {
				nama = b.Kandang.Nama
			}
			res = append(res, toBiayaResponse(b, nama))
		}

		return c.JSON(res)
	}
}

// DELETE /api/biaya/:id
func DeleteBiayaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
		}

		var biaya models.Biaya
		if err := database.DB.First(&biaya, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Biaya tidak ditemukan")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&models.Biaya{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Biaya gagal dihapus")
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   biaya.KandangID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "biaya",
			EntityID:    biaya.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Hapus biaya %s sebesar %s", biaya.Kategori, biaya.Jumlah.StringFixed(2)),
			Before:      biaya,
			After:       nil,
		})

		return c.JSON(fiber.Map{"message": "Biaya berhasil dihapus"})
	}
}

// GET /api/biaya/ringkasan?bulan=2025-08&kandangId=
// Total biaya satu bulan dipecah per kategori.
func RingkasanBiayaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bulanStr := c.Query("bulan")
		if bulanStr == "" {
			bulanStr = time.Now().Format("2006-01")
		}
		bulan, err := time.Parse("2006-01", bulanStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Format bulan harus 'YYYY-MM'")
		}
		awal := time.Date(bulan.Year(), bulan.Month(), 1, 0, 0, 0, 0, bulan.Location())
		akhir := awal.AddDate(0, 1, 0)

		dbq := database.DB.Model(&models.Biaya{}).
			Where("tanggal >= ? AND tanggal < ?", awal, akhir)
		if kidStr := c.Query("kandangId"); kidStr != "" {
			var kid uint
			if _, err := fmt.Sscan(kidStr, &kid); err == nil && kid > 0 {
				dbq = dbq.Where("kandang_id = ?", kid)
			}
		}

		var list []models.Biaya
		if err := dbq.Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Biaya gagal diambil")
		}

		total := decimal.Zero
		perKategori := map[string]decimal.Decimal{}
		for _, b := range list {
			total = total.Add(b.Jumlah)
			perKategori[string(b.Kategori)] = perKategori[string(b.Kategori)].Add(b.Jumlah)
		}

		perKategoriStr := make(map[string]string, len(perKategori))
		for k, v := range perKategori {
			perKategoriStr[k] = v.StringFixed(2)
		}

		return c.JSON(RingkasanBiayaResponse{
			Bulan:       bulanStr,
			Total:       total.StringFixed(2),
			PerKategori: perKategoriStr,
		})
	}
}

func toBiayaResponse(b models.Biaya, namaKandang string) BiayaResponse {
	return BiayaResponse{
		ID:          b.ID,
		KandangID:   b.KandangID,
		NamaKandang: namaKandang,
		Kategori:    string(b.Kategori),
		Jumlah:      b.Jumlah.StringFixed(2),
		Tanggal:     b.Tanggal.Format("2006-01-02"),
		Keterangan:  b.Keterangan,
	}
}
