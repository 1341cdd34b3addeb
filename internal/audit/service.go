package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	KandangID   *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// Kolom jsonb PostgreSQL butuh string JSON "null", bukan string kosong
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		KandangID:   opts.KandangID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log gagal disimpan: %w", err)
	}

	return nil
}

// UndoLog membatalkan efek satu audit log.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log tidak ditemukan: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("operasi ini sudah pernah dibatalkan")
	}

	switch log.Action {
	case models.AuditActionCreate:
		// Create: hapus entity-nya
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity gagal dihapus: %w", err)
		}

	case models.AuditActionUpdate:
		// Update: kembalikan ke kondisi sebelumnya
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity gagal dikembalikan: %w", err)
		}

	case models.AuditActionDelete:
		// Delete: buat ulang entity dari snapshot sebelum dihapus
		if err := recreateEntity(log.EntityType, log.BeforeData); err != nil {
			return fmt.Errorf("entity gagal dibuat ulang: %w", err)
		}

	default:
		return fmt.Errorf("jenis operasi ini tidak bisa dibatalkan")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log gagal diperbarui: %w", err)
	}

	undoLog := models.AuditLog{
		KandangID:   log.KandangID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Dibatalkan: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log gagal disimpan: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "kematian":
		return database.DB.Delete(&models.Kematian{}, "id = ?", entityID).Error
	case "panen":
		return database.DB.Delete(&models.Panen{}, "id = ?", entityID).Error
	case "ayam_masuk":
		// Batch dengan kematian/panen yang mereferensikannya tidak boleh hilang
		var refs int64
		database.DB.Model(&models.Kematian{}).Where("ayam_masuk_id = ?", entityID).Count(&refs)
		if refs == 0 {
			database.DB.Model(&models.Panen{}).Where("ayam_masuk_id = ?", entityID).Count(&refs)
		}
		if refs > 0 {
			return fmt.Errorf("batch masih direferensikan oleh kematian/panen")
		}
		return database.DB.Delete(&models.AyamMasuk{}, "id = ?", entityID).Error
	case "kegiatan":
		return database.DB.Delete(&models.Kegiatan{}, "id = ?", entityID).Error
	case "biaya":
		return database.DB.Delete(&models.Biaya{}, "id = ?", entityID).Error
	case "pakan_transaksi":
		// Kembalikan delta stok sebelum menghapus mutasinya
		var trx models.PakanTransaksi
		if err := database.DB.First(&trx, "id = ?", entityID).Error; err != nil {
			return err
		}
		delta := trx.JumlahKg
		if trx.Jenis == models.TransaksiMasuk {
			delta = -delta
		}
		if err := database.DB.Model(&models.Pakan{}).Where("id = ?", trx.PakanID).
			Update("stok_kg", gorm.Expr("stok_kg + ?", delta)).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.PakanTransaksi{}, "id = ?", entityID).Error
	case "vaksin_transaksi":
		var trx models.VaksinTransaksi
		if err := database.DB.First(&trx, "id = ?", entityID).Error; err != nil {
			return err
		}
		delta := trx.JumlahUnit
		if trx.Jenis == models.TransaksiMasuk {
			delta = -delta
		}
		if err := database.DB.Model(&models.Vaksin{}).Where("id = ?", trx.VaksinID).
			Update("stok_unit", gorm.Expr("stok_unit + ?", delta)).Error; err != nil {
			return err
		}
		return database.DB.Delete(&models.VaksinTransaksi{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("entity tipe tidak dikenal: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "kematian":
		var k models.Kematian
		if err := json.Unmarshal([]byte(dataJSON), &k); err != nil {
			return err
		}
		k.ID = 0
		return database.DB.Create(&k).Error

	case "panen":
		var p models.Panen
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		p.ID = 0
		return database.DB.Create(&p).Error

	case "kegiatan":
		var kg models.Kegiatan
		if err := json.Unmarshal([]byte(dataJSON), &kg); err != nil {
			return err
		}
		kg.ID = 0
		return database.DB.Create(&kg).Error

	case "biaya":
		var b models.Biaya
		if err := json.Unmarshal([]byte(dataJSON), &b); err != nil {
			return err
		}
		b.ID = 0
		return database.DB.Create(&b).Error

	default:
		return fmt.Errorf("entity tipe tidak dikenal: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "kematian":
		var k models.Kematian
		if err := json.Unmarshal([]byte(dataJSON), &k); err != nil {
			return err
		}
		return database.DB.Model(&models.Kematian{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"ayam_masuk_id":     k.AyamMasukID,
			"kandang_id":        k.KandangID,
			"tanggal_kematian":  k.TanggalKematian,
			"jumlah_kematian":   k.JumlahKematian,
			"penyebab_kematian": k.PenyebabKematian,
		}).Error

	case "panen":
		var p models.Panen
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		return database.DB.Model(&models.Panen{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"ayam_masuk_id":     p.AyamMasukID,
			"kandang_id":        p.KandangID,
			"tanggal_panen":     p.TanggalPanen,
			"jumlah_ekor_panen": p.JumlahEkorPanen,
			"berat_rata_rata":   p.BeratRataRata,
		}).Error

	case "kegiatan":
		var kg models.Kegiatan
		if err := json.Unmarshal([]byte(dataJSON), &kg); err != nil {
			return err
		}
		return database.DB.Model(&models.Kegiatan{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"kandang_id":     kg.KandangID,
			"jenis_kegiatan": kg.JenisKegiatan,
			"tanggal":        kg.Tanggal,
			"catatan":        kg.Catatan,
		}).Error

	case "biaya":
		var b models.Biaya
		if err := json.Unmarshal([]byte(dataJSON), &b); err != nil {
			return err
		}
		return database.DB.Model(&models.Biaya{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"kandang_id": b.KandangID,
			"kategori":   b.Kategori,
			"jumlah":     b.Jumlah,
			"tanggal":    b.Tanggal,
			"keterangan": b.Keterangan,
		}).Error

	default:
		return fmt.Errorf("entity tipe tidak dikenal: %s", entityType)
	}
}
