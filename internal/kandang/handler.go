package kandang

import (
	"strings"

	"ternak-backend/internal/allocation"
	"ternak-backend/internal/classify"
	"ternak-backend/internal/config"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type KandangResponse struct {
	ID        uint   `json:"id"`
	Nama      string `json:"nama"`
	Lokasi    string `json:"lokasi"`
	Kapasitas int    `json:"kapasitas"`
	Deskripsi string `json:"deskripsi"`
	CreatedAt string `json:"createdAt"`
}

type CreateKandangRequest struct {
	Nama      string `json:"nama"`
	Lokasi    string `json:"lokasi"`
	Kapasitas int    `json:"kapasitas"`
	Deskripsi string `json:"deskripsi"`
}

type UpdateKandangRequest struct {
	Nama      *string `json:"nama"`
	Lokasi    *string `json:"lokasi"`
	Kapasitas *int    `json:"kapasitas"`
	Deskripsi *string `json:"deskripsi"`
}

// KandangDetailResponse: detail kandang dengan ledger batch hidup dan
// status klasifikasi yang dipakai tampilan list/dashboard.
type KandangDetailResponse struct {
	KandangResponse
	TotalPopulasi       int                      `json:"totalPopulasi"`
	TotalMasuk          int                      `json:"totalMasuk"`
	TotalKematian       int                      `json:"totalKematian"`
	TotalPanen          int                      `json:"totalPanen"`
	UtilisasiPct        float64                  `json:"utilisasiPct"`
	UtilisasiStatus     classify.UtilizationTier `json:"utilisasiStatus"`
	MortalitasPct       float64                  `json:"mortalitasPct"`
	MortalitasStatus    classify.MortalityTier   `json:"mortalitasStatus"`
	Ledger              allocation.Ledger        `json:"ledger"`
	JumlahBatchAktif    int                      `json:"jumlahBatchAktif"`
}

// POST /api/kandang
func CreateKandangHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateKandangRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Nama = strings.TrimSpace(body.Nama)
		if body.Nama == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama kandang tidak boleh kosong")
		}
		if body.Kapasitas <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kapasitas harus lebih dari 0")
		}

		kandang := models.Kandang{
			Nama:      body.Nama,
			Lokasi:    body.Lokasi,
			Kapasitas: body.Kapasitas,
			Deskripsi: body.Deskripsi,
		}

		if err := database.DB.Create(&kandang).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kandang gagal dibuat")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(kandang))
	}
}

// GET /api/kandang
func ListKandangHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Kandang
		if err := database.DB.Order("nama ASC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kandang gagal diambil")
		}

		res := make([]KandangDetailResponse, 0, len(list))
		for _, k := range list {
			detail, err := buildDetail(cfg, k)
			if err != nil {
				return err
			}
			res = append(res, *detail)
		}

		return c.JSON(res)
	}
}

// GET /api/kandang/:id
func GetKandangHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var kandang models.Kandang
		if err := database.DB.First(&kandang, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kandang tidak ditemukan")
		}

		detail, err := buildDetail(cfg, kandang)
		if err != nil {
			return err
		}
		return c.JSON(detail)
	}
}

// PUT /api/kandang/:id
func UpdateKandangHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var kandang models.Kandang
		if err := database.DB.First(&kandang, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kandang tidak ditemukan")
		}

		var body UpdateKandangRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if body.Nama != nil {
			nama := strings.TrimSpace(*body.Nama)
			if nama == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama kandang tidak boleh kosong")
			}
			kandang.Nama = nama
		}
		if body.Lokasi != nil {
			kandang.Lokasi = *body.Lokasi
		}
		if body.Kapasitas != nil {
			if *body.Kapasitas <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Kapasitas harus lebih dari 0")
			}
			kandang.Kapasitas = *body.Kapasitas
		}
		if body.Deskripsi != nil {
			kandang.Deskripsi = *body.Deskripsi
		}

		if err := database.DB.Save(&kandang).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kandang gagal diperbarui")
		}

		return c.JSON(toResponse(kandang))
	}
}

// DELETE /api/kandang/:id
func DeleteKandangHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var kandang models.Kandang
		if err := database.DB.First(&kandang, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kandang tidak ditemukan")
		}

		var batchCount int64
		database.DB.Model(&models.AyamMasuk{}).Where("kandang_id = ?", kandang.ID).Count(&batchCount)
		if batchCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kandang dengan riwayat batch tidak bisa dihapus")
		}

		if err := database.DB.Delete(&kandang).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kandang gagal dihapus")
		}

		return c.JSON(fiber.Map{"message": "Kandang dihapus"})
	}
}

func toResponse(k models.Kandang) KandangResponse {
	return KandangResponse{
		ID:        k.ID,
		Nama:      k.Nama,
		Lokasi:    k.Lokasi,
		Kapasitas: k.Kapasitas,
		Deskripsi: k.Deskripsi,
		CreatedAt: k.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func buildDetail(cfg *config.Config, k models.Kandang) (*KandangDetailResponse, error) {
	ledger, totals, err := LoadLedger(database.DB, k.ID)
	if err != nil {
		return nil, err
	}

	populasi := ledger.TotalSisa()

	utilPct := 0.0
	if k.Kapasitas > 0 {
		utilPct = float64(populasi) / float64(k.Kapasitas) * 100
	}
	mortPct := classify.MortalityPct(totals.Kematian, totals.Masuk)

	return &KandangDetailResponse{
		KandangResponse:  toResponse(k),
		TotalPopulasi:    populasi,
		TotalMasuk:       totals.Masuk,
		TotalKematian:    totals.Kematian,
		TotalPanen:       totals.Panen,
		UtilisasiPct:     utilPct,
		UtilisasiStatus:  cfg.Thresholds.UtilizationTier(utilPct, mortPct),
		MortalitasPct:    mortPct,
		MortalitasStatus: cfg.Thresholds.MortalityTier(mortPct),
		Ledger:           ledger,
		JumlahBatchAktif: len(ledger.Allocatable()),
	}, nil
}

// LedgerTotals: agregat mentah yang menyertai ledger sebuah kandang.
type LedgerTotals struct {
	Masuk    int
	Kematian int
	Panen    int
}

// LoadLedger membangun ledger kandang dari tiga aliran record lewat koneksi
// yang diberikan (database.DB atau transaksi berjalan). Dipakai juga oleh
// paket ternak, dashboard, dan scheduler.
func LoadLedger(db *gorm.DB, kandangID uint) (allocation.Ledger, LedgerTotals, error) {
	var masuk []models.AyamMasuk
	if err := db.Where("kandang_id = ?", kandangID).Find(&masuk).Error; err != nil {
		return nil, LedgerTotals{}, fiber.NewError(fiber.StatusInternalServerError, "Data batch gagal diambil")
	}

	var kematian []models.Kematian
	if err := db.Where("kandang_id = ?", kandangID).Find(&kematian).Error; err != nil {
		return nil, LedgerTotals{}, fiber.NewError(fiber.StatusInternalServerError, "Data kematian gagal diambil")
	}

	var panen []models.Panen
	if err := db.Where("kandang_id = ?", kandangID).Find(&panen).Error; err != nil {
		return nil, LedgerTotals{}, fiber.NewError(fiber.StatusInternalServerError, "Data panen gagal diambil")
	}

	totals := LedgerTotals{}
	for _, m := range masuk {
		totals.Masuk += m.JumlahMasuk
	}
	for _, k := range kematian {
		totals.Kematian += k.JumlahKematian
	}
	for _, p := range panen {
		totals.Panen += p.JumlahEkorPanen
	}

	return allocation.BuildLedger(masuk, kematian, panen), totals, nil
}
