package dashboard

import (
	"time"

	"ternak-backend/internal/auth"
	"ternak-backend/internal/classify"
	"ternak-backend/internal/config"
	"ternak-backend/internal/database"
	"ternak-backend/internal/kandang"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type KandangRingkas struct {
	ID               uint                     `json:"id"`
	Nama             string                   `json:"nama"`
	Kapasitas        int                      `json:"kapasitas"`
	TotalPopulasi    int                      `json:"totalPopulasi"`
	UtilisasiPct     float64                  `json:"utilisasiPct"`
	UtilisasiStatus  classify.UtilizationTier `json:"utilisasiStatus"`
	MortalitasPct    float64                  `json:"mortalitasPct"`
	MortalitasStatus classify.MortalityTier   `json:"mortalitasStatus"`
	JumlahBatchAktif int                      `json:"jumlahBatchAktif"`
}

type StokAlert struct {
	Jenis  string             `json:"jenis"` // "pakan" | "vaksin"
	ID     uint               `json:"id"`
	Nama   string             `json:"nama"`
	Stok   float64            `json:"stok"`
	Status classify.StockTier `json:"status"`
}

type DashboardResponse struct {
	TotalKandang     int              `json:"totalKandang"`
	TotalPopulasi    int              `json:"totalPopulasi"`
	TotalKematian30  int              `json:"totalKematian30Hari"`
	TotalPanen30     int              `json:"totalPanen30Hari"`
	BiayaBulanIni    string           `json:"biayaBulanIni"`
	Kandang          []KandangRingkas `json:"kandang"`
	StokAlert        []StokAlert      `json:"stokAlert"`
}

type ChartPoint struct {
	Tanggal  string `json:"tanggal"`
	Kematian int    `json:"kematian"`
	Panen    int    `json:"panen"`
}

// GET /api/dashboard
// Petugas hanya melihat kandang tugasnya; operator dan pemilik melihat semua.
func DashboardHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Locals(auth.CtxUserRoleKey).(models.UserRole)

		dbq := database.DB.Order("nama ASC")
		if role == models.RolePetugas {
			kPtr, ok := c.Locals(auth.CtxKandangIDKey).(*uint)
			if !ok || kPtr == nil {
				return fiber.NewError(fiber.StatusForbidden, "Petugas belum ditugaskan ke kandang")
			}
			dbq = dbq.Where("id = ?", *kPtr)
		}

		var daftarKandang []models.Kandang
		if err := dbq.Find(&daftarKandang).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kandang gagal diambil")
		}

		res := DashboardResponse{
			Kandang:   make([]KandangRingkas, 0, len(daftarKandang)),
			StokAlert: []StokAlert{},
		}
		res.TotalKandang = len(daftarKandang)

		kandangIDs := make([]uint, 0, len(daftarKandang))
		for _, k := range daftarKandang {
			kandangIDs = append(kandangIDs, k.ID)

			ledger, totals, err := kandang.LoadLedger(database.DB, k.ID)
			if err != nil {
				return err
			}

			populasi := ledger.TotalSisa()
			res.TotalPopulasi += populasi

			utilPct := 0.0
			if k.Kapasitas > 0 {
				utilPct = float64(populasi) / float64(k.Kapasitas) * 100
			}
			mortPct := classify.MortalityPct(totals.Kematian, totals.Masuk)

			res.Kandang = append(res.Kandang, KandangRingkas{
				ID:               k.ID,
				Nama:             k.Nama,
				Kapasitas:        k.Kapasitas,
				TotalPopulasi:    populasi,
				UtilisasiPct:     utilPct,
				UtilisasiStatus:  cfg.Thresholds.UtilizationTier(utilPct, mortPct),
				MortalitasPct:    mortPct,
				MortalitasStatus: cfg.Thresholds.MortalityTier(mortPct),
				JumlahBatchAktif: len(ledger.Allocatable()),
			})
		}

		batas30 := time.Now().AddDate(0, 0, -30)

		if len(kandangIDs) > 0 {
			var totalKematian int64
			database.DB.Model(&models.Kematian{}).
				Where("kandang_id IN ? AND tanggal_kematian >= ?", kandangIDs, batas30).
				Select("COALESCE(SUM(jumlah_kematian), 0)").Scan(&totalKematian)
			res.TotalKematian30 = int(totalKematian)

			var totalPanen int64
			database.DB.Model(&models.Panen{}).
				Where("kandang_id IN ? AND tanggal_panen >= ?", kandangIDs, batas30).
				Select("COALESCE(SUM(jumlah_ekor_panen), 0)").Scan(&totalPanen)
			res.TotalPanen30 = int(totalPanen)
		}

		// Ringkasan biaya dan alert stok hanya untuk operator/pemilik.
		res.BiayaBulanIni = "0.00"
		if role != models.RolePetugas {
			now := time.Now()
			awalBulan := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

			var biaya []models.Biaya
			if err := database.DB.Where("tanggal >= ?", awalBulan).Find(&biaya).Error; err == nil {
				total := decimal.Zero
				for _, b := range biaya {
					total = total.Add(b.Jumlah)
				}
				res.BiayaBulanIni = total.StringFixed(2)
			}

			var pakan []models.Pakan
			if err := database.DB.Find(&pakan).Error; err == nil {
				for _, p := range pakan {
					status := cfg.Thresholds.FeedStockTier(p.StokKg)
					if status != classify.StockSufficient {
						res.StokAlert = append(res.StokAlert, StokAlert{
							Jenis: "pakan", ID: p.ID, Nama: p.Nama, Stok: p.StokKg, Status: status,
						})
					}
				}
			}

			var vaksin []models.Vaksin
			if err := database.DB.Find(&vaksin).Error; err == nil {
				for _, v := range vaksin {
					status := cfg.Thresholds.VaccineStockTier(v.StokUnit)
					if status != classify.StockSufficient {
						res.StokAlert = append(res.StokAlert, StokAlert{
							Jenis: "vaksin", ID: v.ID, Nama: v.Nama, Stok: float64(v.StokUnit), Status: status,
						})
					}
				}
			}
		}

		return c.JSON(res)
	}
}

// GET /api/dashboard/chart?kandangId=
// Deret harian kematian dan panen 30 hari terakhir untuk grafik.
func ChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Locals(auth.CtxUserRoleKey).(models.UserRole)

		var kandangID uint
		if role == models.RolePetugas {
			kPtr, ok := c.Locals(auth.CtxKandangIDKey).(*uint)
			if !ok || kPtr == nil {
				return fiber.NewError(fiber.StatusForbidden, "Petugas belum ditugaskan ke kandang")
			}
			kandangID = *kPtr
		} else if kid := c.QueryInt("kandangId"); kid > 0 {
			kandangID = uint(kid)
		}

		now := time.Now()
		awal := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -29)

		kematianQ := database.DB.Model(&models.Kematian{}).Where("tanggal_kematian >= ?", awal)
		panenQ := database.DB.Model(&models.Panen{}).Where("tanggal_panen >= ?", awal)
		if kandangID > 0 {
			kematianQ = kematianQ.Where("kandang_id = ?", kandangID)
			panenQ = panenQ.Where("kandang_id = ?", kandangID)
		}

		var kematian []models.Kematian
		if err := kematianQ.Find(&kematian).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Data kematian gagal diambil")
		}
		var panen []models.Panen
		if err := panenQ.Find(&panen).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Data panen gagal diambil")
		}

		kematianPerHari := map[string]int{}
		for _, k := range kematian {
			kematianPerHari[k.TanggalKematian.Format("2006-01-02")] += k.JumlahKematian
		}
		panenPerHari := map[string]int{}
		for _, p := range panen {
			panenPerHari[p.TanggalPanen.Format("2006-01-02")] += p.JumlahEkorPanen
		}

		points := make([]ChartPoint, 0, 30)
		for i := 0; i < 30; i++ {
			hari := awal.AddDate(0, 0, i).Format("2006-01-02")
			points = append(points, ChartPoint{
				Tanggal:  hari,
				Kematian: kematianPerHari[hari],
				Panen:    panenPerHari[hari],
			})
		}

		return c.JSON(points)
	}
}
