package main

import (
	"strings"

	"ternak-backend/internal/admin"
	"ternak-backend/internal/audit"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/biaya"
	"ternak-backend/internal/config"
	"ternak-backend/internal/dashboard"
	"ternak-backend/internal/database"
	"ternak-backend/internal/kandang"
	"ternak-backend/internal/kegiatan"
	"ternak-backend/internal/laporan"
	"ternak-backend/internal/models"
	"ternak-backend/internal/notify"
	"ternak-backend/internal/scheduler"
	"ternak-backend/internal/stok"
	"ternak-backend/internal/ternak"
	"ternak-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("unhandled error",
				zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Terjadi kesalahan pada server",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-pemilik", auth.RegisterPemilikHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Dashboard: semua role, konten disesuaikan per role di handler
	protected.Get("/dashboard", dashboard.DashboardHandler(cfg))
	protected.Get("/dashboard/chart", dashboard.ChartHandler())

	// Kandang: baca semua role, tulis operator/pemilik
	protected.Get("/kandang", kandang.ListKandangHandler(cfg))
	protected.Get("/kandang/:id", kandang.GetKandangHandler(cfg))

	kandangWrite := protected.Group("/kandang")
	kandangWrite.Use(auth.RequireRole(models.RoleOperator, models.RolePemilik))
	kandangWrite.Post("", kandang.CreateKandangHandler())
	kandangWrite.Put("/:id", kandang.UpdateKandangHandler())
	kandangWrite.Delete("/:id", kandang.DeleteKandangHandler())

	// Pencatatan ternak: semua role mencatat; petugas terkunci ke
	// kandang tugasnya di handler
	protected.Post("/ayam-masuk", ternak.CreateAyamMasukHandler())
	protected.Get("/ayam-masuk", ternak.ListAyamMasukHandler())

	protected.Post("/kematian", ternak.CreateKematianHandler())
	protected.Get("/kematian", ternak.ListKematianHandler())

	protected.Post("/panen", ternak.CreatePanenHandler())
	protected.Get("/panen", ternak.ListPanenHandler())

	// Hapus record pencatatan hanya operator/pemilik
	hapus := protected.Group("")
	hapus.Use(auth.RequireRole(models.RoleOperator, models.RolePemilik))
	hapus.Delete("/kematian/:id", ternak.DeleteKematianHandler())
	hapus.Delete("/panen/:id", ternak.DeletePanenHandler())

	// Kegiatan harian
	protected.Post("/kegiatan", kegiatan.CreateKegiatanHandler())
	protected.Get("/kegiatan", kegiatan.ListKegiatanHandler())
	protected.Get("/kegiatan/referensi", kegiatan.KegiatanReferensiHandler())
	hapus.Delete("/kegiatan/:id", kegiatan.DeleteKegiatanHandler())

	// Stok pakan dan vaksin: baca semua role, mutasi operator/pemilik
	protected.Get("/pakan", stok.ListPakanHandler(cfg))
	protected.Get("/vaksin", stok.ListVaksinHandler(cfg))
	protected.Get("/pakan-transaksi", stok.ListPakanTransaksiHandler())
	protected.Get("/vaksin-transaksi", stok.ListVaksinTransaksiHandler())

	stokWrite := protected.Group("")
	stokWrite.Use(auth.RequireRole(models.RoleOperator, models.RolePemilik))
	stokWrite.Post("/pakan", stok.CreatePakanHandler())
	stokWrite.Post("/vaksin", stok.CreateVaksinHandler())
	stokWrite.Post("/pakan-transaksi", stok.CreatePakanTransaksiHandler())
	stokWrite.Post("/vaksin-transaksi", stok.CreateVaksinTransaksiHandler())

	// Biaya: operator/pemilik
	biayaRoutes := protected.Group("/biaya")
	biayaRoutes.Use(auth.RequireRole(models.RoleOperator, models.RolePemilik))
	biayaRoutes.Post("", biaya.CreateBiayaHandler())
	biayaRoutes.Get("", biaya.ListBiayaHandler())
	biayaRoutes.Get("/ringkasan", biaya.RingkasanBiayaHandler())
	biayaRoutes.Delete("/:id", biaya.DeleteBiayaHandler())

	// Laporan bulanan: pemilik
	laporanRoutes := protected.Group("/laporan")
	laporanRoutes.Use(auth.RequireRole(models.RolePemilik))
	laporanRoutes.Post("", laporan.CreateLaporanHandler())
	laporanRoutes.Get("", laporan.ListLaporanHandler())
	laporanRoutes.Get("/:id", laporan.GetLaporanHandler())
	laporanRoutes.Get("/:id/export", laporan.ExportLaporanHandler())

	// Audit log: baca semua role (petugas dibatasi di handler), undo
	// hanya operator/pemilik
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	undoRoutes := protected.Group("")
	undoRoutes.Use(auth.RequireRole(models.RoleOperator, models.RolePemilik))
	undoRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Manajemen user: pemilik
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RolePemilik))
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Put("/users/:id", admin.UpdateUserHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())

	// Pemindaian alert terjadwal
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.AlertWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.AlertWebhookURL, logger.Named(log, "notify"))
	}
	sched := scheduler.New(cfg, notifier, logger.Named(log, "scheduler"))
	sched.Start()
	defer sched.Stop()

	log.Info("server berjalan", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("server berhenti", zap.Error(err))
	}
}
