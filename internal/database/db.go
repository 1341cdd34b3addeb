package database

import (
	"log"

	"ternak-backend/internal/config"
	"ternak-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Tidak bisa terhubung ke database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Kandang{},
		&models.User{},
		&models.AyamMasuk{},
		&models.Kematian{},
		&models.Panen{},
		&models.Pakan{},
		&models.PakanTransaksi{},
		&models.Vaksin{},
		&models.VaksinTransaksi{},
		&models.Kegiatan{},
		&models.Biaya{},
		&models.AuditLog{},
		&models.LaporanBulanan{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate gagal: %v", err)
	}

	// Index gabungan untuk rekonstruksi ledger per kandang (query paling sering).
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_ayam_masuk_kandang_tanggal ON ayam_masuks(kandang_id, tanggal_masuk)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_kematian_batch ON kematians(ayam_masuk_id)")
	DB.Exec("CREATE INDEX IF NOT EXISTS idx_panen_batch ON panens(ayam_masuk_id)")

	log.Println("Koneksi database berhasil. Migration selesai.")
}
