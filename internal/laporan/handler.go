package laporan

import (
	"fmt"
	"time"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/classify"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateLaporanRequest struct {
	KandangID *uint  `json:"kandangId"` // nil = seluruh kandang
	Tahun     int    `json:"tahun"`
	Bulan     int    `json:"bulan"`
	Catatan   string `json:"catatan"`
}

type LaporanResponse struct {
	ID                 uint    `json:"id"`
	KandangID          *uint   `json:"kandangId,omitempty"`
	NamaKandang        string  `json:"namaKandang,omitempty"`
	Tahun              int     `json:"tahun"`
	Bulan              int     `json:"bulan"`
	TotalAyamMasuk     int     `json:"totalAyamMasuk"`
	TotalKematian      int     `json:"totalKematian"`
	TotalPanen         int     `json:"totalPanen"`
	PersentaseKematian float64 `json:"persentaseKematian"`
	TotalBeratPanenKg  string  `json:"totalBeratPanenKg"`
	TotalBiaya         string  `json:"totalBiaya"`
	Catatan            string  `json:"catatan"`
	CreatedAt          string  `json:"createdAt"`
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

// hitungRekap mengagregasi satu periode bulanan, opsional per kandang.
func hitungRekap(kandangID *uint, tahun, bulan int) (models.LaporanBulanan, error) {
	awal := time.Date(tahun, time.Month(bulan), 1, 0, 0, 0, 0, time.Local)
	akhir := awal.AddDate(0, 1, 0)

	rekap := models.LaporanBulanan{
		KandangID:         kandangID,
		Tahun:             tahun,
		Bulan:             bulan,
		TotalBeratPanenKg: decimal.Zero,
		TotalBiaya:        decimal.Zero,
	}

	masukQ := database.DB.Model(&models.AyamMasuk{}).
		Where("tanggal_masuk >= ? AND tanggal_masuk < ?", awal, akhir)
	kematianQ := database.DB.Model(&models.Kematian{}).
		Where("tanggal_kematian >= ? AND tanggal_kematian < ?", awal, akhir)
	panenQ := database.DB.Model(&models.Panen{}).
		Where("tanggal_panen >= ? AND tanggal_panen < ?", awal, akhir)
	biayaQ := database.DB.Model(&models.Biaya{}).
		Where("tanggal >= ? AND tanggal < ?", awal, akhir)

	if kandangID != nil {
		masukQ = masukQ.Where("kandang_id = ?", *kandangID)
		kematianQ = kematianQ.Where("kandang_id = ?", *kandangID)
		panenQ = panenQ.Where("kandang_id = ?", *kandangID)
		biayaQ = biayaQ.Where("kandang_id = ?", *kandangID)
	}

	var totalMasuk int64
	if err := masukQ.Select("COALESCE(SUM(jumlah_masuk), 0)").Scan(&totalMasuk).Error; err != nil {
		return rekap, err
	}
	rekap.TotalAyamMasuk = int(totalMasuk)

	var totalKematian int64
	if err := kematianQ.Select("COALESCE(SUM(jumlah_kematian), 0)").Scan(&totalKematian).Error; err != nil {
		return rekap, err
	}
	rekap.TotalKematian = int(totalKematian)

	var panen []models.Panen
	if err := panenQ.Find(&panen).Error; err != nil {
		return rekap, err
	}
	for _, p := range panen {
		rekap.TotalPanen += p.JumlahEkorPanen
		rekap.TotalBeratPanenKg = rekap.TotalBeratPanenKg.
			Add(p.BeratRataRata.Mul(decimal.NewFromInt(int64(p.JumlahEkorPanen))))
	}

	var biaya []models.Biaya
	if err := biayaQ.Find(&biaya).Error; err != nil {
		return rekap, err
	}
	for _, b := range biaya {
		rekap.TotalBiaya = rekap.TotalBiaya.Add(b.Jumlah)
	}

	rekap.PersentaseKematian = classify.MortalityPct(rekap.TotalKematian, rekap.TotalAyamMasuk)

	return rekap, nil
}

// POST /api/laporan
// Menghitung dan menyimpan rekap bulanan. Periode yang sama ditimpa.
func CreateLaporanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLaporanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Tahun < 2000 || body.Tahun > 2100 || body.Bulan < 1 || body.Bulan > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Tahun/bulan tidak valid")
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

		rekap, err := hitungRekap(body.KandangID, body.Tahun, body.Bulan)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rekap gagal dihitung")
		}
		rekap.Catatan = body.Catatan
		rekap.DibuatOleh = userID

		// Satu laporan per periode per kandang; hitung ulang menimpa yang lama.
		existsQ := database.DB.Where("tahun = ? AND bulan = ?", body.Tahun, body.Bulan)
		if body.KandangID != nil {
			existsQ = existsQ.Where("kandang_id = ?", *body.KandangID)
		} else {
			existsQ = existsQ.Where("kandang_id IS NULL")
		}
		var existing models.LaporanBulanan
		if err := existsQ.First(&existing).Error; err == nil {
			rekap.ID = existing.ID
			if err := database.DB.Save(&rekap).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Laporan gagal diperbarui")
			}
		} else {
			if err := database.DB.Create(&rekap).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Laporan gagal disimpan")
			}
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   body.KandangID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "laporan_bulanan",
			EntityID:    rekap.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Laporan bulanan %d-%02d dibuat", body.Tahun, body.Bulan),
			Before:      nil,
			After:       rekap,
		})

		return c.Status(fiber.StatusCreated).JSON(toLaporanResponse(rekap, ""))
	}
}

// GET /api/laporan?tahun=&kandangId=
func ListLaporanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.LaporanBulanan{}).Preload("Kandang")

		if tahun := c.QueryInt("tahun"); tahun > 0 {
			dbq = dbq.Where("tahun = ?", tahun)
		}
		if kid := c.QueryInt("kandangId"); kid > 0 {
			dbq = dbq.Where("kandang_id = ?", kid)
		}

		var list []models.LaporanBulanan
		if err := dbq.Order("tahun DESC, bulan DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Laporan gagal diambil")
		}

		res := make([]LaporanResponse, 0, len(list))
		for _, l := range list {
			nama := ""
			if l.Kandang != nil {
				nama = l.Kandang.Nama
			}
			res = append(res, toLaporanResponse(l, nama))
		}

		return c.JSON(res)
	}
}

// GET /api/laporan/:id
func GetLaporanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
		}

		var laporan models.LaporanBulanan
		if err := database.DB.Preload("Kandang").First(&laporan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laporan tidak ditemukan")
		}

		nama := ""
		if laporan.Kandang != nil {
			nama = laporan.Kandang.Nama
		}
		return c.JSON(toLaporanResponse(laporan, nama))
	}
}

func toLaporanResponse(l models.LaporanBulanan, namaKandang string) LaporanResponse {
	return LaporanResponse{
		ID:                 l.ID,
		KandangID:          l.KandangID,
		NamaKandang:        namaKandang,
		Tahun:              l.Tahun,
		Bulan:              l.Bulan,
		TotalAyamMasuk:     l.TotalAyamMasuk,
		TotalKematian:      l.TotalKematian,
		TotalPanen:         l.TotalPanen,
		PersentaseKematian: l.PersentaseKematian,
		TotalBeratPanenKg:  l.TotalBeratPanenKg.StringFixed(2),
		TotalBiaya:         l.TotalBiaya.StringFixed(2),
		Catatan:            l.Catatan,
		CreatedAt:          l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
