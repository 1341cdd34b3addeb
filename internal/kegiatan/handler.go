package kegiatan

import (
	"fmt"
	"time"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateKegiatanRequest struct {
	KandangID        *uint    `json:"kandangId"`
	JenisKegiatan    string   `json:"jenisKegiatan"`
	Tanggal          string   `json:"tanggal"`
	Catatan          string   `json:"catatan"`
	PakanID          *uint    `json:"pakanId"`
	JumlahPakanKg    *float64 `json:"jumlahPakanKg"`
	VaksinID         *uint    `json:"vaksinId"`
	JumlahVaksinUnit *int     `json:"jumlahVaksinUnit"`
}

type KegiatanResponse struct {
	ID               uint     `json:"id"`
	KandangID        uint     `json:"kandangId"`
	NamaKandang      string   `json:"namaKandang"`
	JenisKegiatan    string   `json:"jenisKegiatan"`
	Tanggal          string   `json:"tanggal"`
	Catatan          string   `json:"catatan"`
	PakanID          *uint    `json:"pakanId,omitempty"`
	JumlahPakanKg    *float64 `json:"jumlahPakanKg,omitempty"`
	VaksinID         *uint    `json:"vaksinId,omitempty"`
	JumlahVaksinUnit *int     `json:"jumlahVaksinUnit,omitempty"`
}

var validJenisKegiatan = map[string]bool{
	"pemberian_pakan": true,
	"vaksinasi":       true,
	"pembersihan":     true,
	"lainnya":         true,
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

func resolveKandangID(c *fiber.Ctx, bodyKandangID *uint) (uint, error) {
	role := c.Locals(auth.CtxUserRoleKey).(models.UserRole)

	if role == models.RolePetugas {
		kPtr, ok := c.Locals(auth.CtxKandangIDKey).(*uint)
		if !ok || kPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Petugas belum ditugaskan ke kandang")
		}
		if bodyKandangID != nil && *bodyKandangID != *kPtr {
			return 0, fiber.NewError(fiber.StatusForbidden, "Petugas hanya bisa mencatat untuk kandangnya sendiri")
		}
		return *kPtr, nil
	}

	if bodyKandangID == nil || *bodyKandangID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "kandangId wajib diisi")
	}
	return *bodyKandangID, nil
}

func parseTanggal(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus 'YYYY-MM-DD'")
	}
	return d, nil
}

// POST /api/kegiatan
// Kegiatan pemberian_pakan/vaksinasi bisa menyertakan konsumsi stok;
// transaksi stok keluar dibuat dalam transaksi yang sama.
func CreateKegiatanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateKegiatanRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		if !validJenisKegiatan[body.JenisKegiatan] {
			return fiber.NewError(fiber.StatusBadRequest,
				"Jenis kegiatan tidak valid (pemberian_pakan|vaksinasi|pembersihan|lainnya)")
		}

		kandangID, err := resolveKandangID(c, body.KandangID)
		if err != nil {
			return err
		}

		tanggal, err := parseTanggal(body.Tanggal)
		if err != nil {
			return err
		}

		if body.PakanID != nil && (body.JumlahPakanKg == nil || *body.JumlahPakanKg <= 0) {
			return fiber.NewError(fiber.StatusBadRequest, "jumlahPakanKg harus lebih dari 0")
		}
		if body.VaksinID != nil && (body.JumlahVaksinUnit == nil || *body.JumlahVaksinUnit <= 0) {
			return fiber.NewError(fiber.StatusBadRequest, "jumlahVaksinUnit harus lebih dari 0")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var kandang models.Kandang
		if err := database.DB.First(&kandang, "id = ?", kandangID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kandang tidak ditemukan")
		}

		kegiatan := models.Kegiatan{
			KandangID:        kandangID,
			PetugasID:        userID,
			JenisKegiatan:    body.JenisKegiatan,
			Tanggal:          tanggal,
			Catatan:          body.Catatan,
			PakanID:          body.PakanID,
			JumlahPakanKg:    body.JumlahPakanKg,
			VaksinID:         body.VaksinID,
			JumlahVaksinUnit: body.JumlahVaksinUnit,
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if body.PakanID != nil {
				var pakan models.Pakan
				if err := tx.First(&pakan, "id = ?", *body.PakanID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Pakan tidak ditemukan")
				}
				if pakan.StokKg-*body.JumlahPakanKg < 0 {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Stok pakan tidak cukup (tersedia %.2f kg)", pakan.StokKg))
				}
				if err := tx.Model(&models.Pakan{}).Where("id = ?", pakan.ID).
					Update("stok_kg", gorm.Expr("stok_kg - ?", *body.JumlahPakanKg)).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Stok pakan gagal diperbarui")
				}
				if err := tx.Create(&models.PakanTransaksi{
					PakanID:     pakan.ID,
					KandangID:   &kandangID,
					Jenis:       models.TransaksiKeluar,
					JumlahKg:    *body.JumlahPakanKg,
					Tanggal:     tanggal,
					Catatan:     "Kegiatan: " + body.JenisKegiatan,
					DicatatOleh: userID,
				}).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Transaksi pakan gagal disimpan")
				}
			}

			if body.VaksinID != nil {
				var vaksin models.Vaksin
				if err := tx.First(&vaksin, "id = ?", *body.VaksinID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Vaksin tidak ditemukan")
				}
				if vaksin.StokUnit-*body.JumlahVaksinUnit < 0 {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Stok vaksin tidak cukup (tersedia %d unit)", vaksin.StokUnit))
				}
				if err := tx.Model(&models.Vaksin{}).Where("id = ?", vaksin.ID).
					Update("stok_unit", gorm.Expr("stok_unit - ?", *body.JumlahVaksinUnit)).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Stok vaksin gagal diperbarui")
				}
				if err := tx.Create(&models.VaksinTransaksi{
					VaksinID:    vaksin.ID,
					KandangID:   &kandangID,
					Jenis:       models.TransaksiKeluar,
					JumlahUnit:  *body.JumlahVaksinUnit,
					Tanggal:     tanggal,
					Catatan:     "Kegiatan: " + body.JenisKegiatan,
					DicatatOleh: userID,
				}).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Transaksi vaksin gagal disimpan")
				}
			}

			if err := tx.Create(&kegiatan).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kegiatan gagal disimpan")
			}
			return nil
		})
		if txErr != nil {
			return txErr
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   &kandangID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "kegiatan",
			EntityID:    kegiatan.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Kegiatan %s di kandang %s", kegiatan.JenisKegiatan, kandang.Nama),
			Before:      nil,
			After:       kegiatan,
		})

		return c.Status(fiber.StatusCreated).JSON(toKegiatanResponse(kegiatan, kandang.Nama))
	}
}

// GET /api/kegiatan?kandangId=&dari=&sampai=
// Petugas hanya melihat kegiatan kandangnya sendiri.
func ListKegiatanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Kegiatan{}).Preload("Kandang")

		role := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
		if role == models.RolePetugas {
			kPtr, ok := c.Locals(auth.CtxKandangIDKey).(*uint)
			if !ok || kPtr == nil {
				return fiber.NewError(fiber.StatusForbidden, "Petugas belum ditugaskan ke kandang")
			}
			dbq = dbq.Where("kandang_id = ?", *kPtr)
		} else if kidStr := c.Query("kandangId"); kidStr != "" {
			var kid uint
			if _, err := fmt.Sscan(kidStr, &kid); err == nil && kid > 0 {
				dbq = dbq.Where("kandang_id = ?", kid)
			}
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

		var list []models.Kegiatan
		if err := dbq.Order("tanggal DESC, id DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kegiatan gagal diambil")
		}

		res := make([]KegiatanResponse, 0, len(list))
		for _, k := range list {
			res = append(res, toKegiatanResponse(k, k.Kandang.Nama))
		}

		return c.JSON(res)
	}
}

// DELETE /api/kegiatan/:id
// Transaksi stok yang menyertai kegiatan tidak ikut dihapus; koreksi stok
// dilakukan lewat transaksi masuk terpisah.
func DeleteKegiatanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
		}

		var kegiatan models.Kegiatan
		if err := database.DB.First(&kegiatan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kegiatan tidak ditemukan")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(&models.Kegiatan{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kegiatan gagal dihapus")
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   &kegiatan.KandangID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "kegiatan",
			EntityID:    kegiatan.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Hapus kegiatan %s", kegiatan.JenisKegiatan),
			Before:      kegiatan,
			After:       nil,
		})

		return c.JSON(fiber.Map{"message": "Kegiatan berhasil dihapus"})
	}
}

// GET /api/kegiatan/referensi
// Data referensi form kegiatan: daftar pakan dan vaksin beserta stok.
func KegiatanReferensiHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pakan []models.Pakan
		if err := database.DB.Order("nama ASC").Find(&pakan).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pakan gagal diambil")
		}

		var vaksin []models.Vaksin
		if err := database.DB.Order("nama ASC").Find(&vaksin).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vaksin gagal diambil")
		}

		var daftarKandang []models.Kandang
		if err := database.DB.Order("nama ASC").Find(&daftarKandang).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kandang gagal diambil")
		}

		type pakanRef struct {
			ID     uint    `json:"id"`
			Nama   string  `json:"nama"`
			Jenis  string  `json:"jenis"`
			StokKg float64 `json:"stokKg"`
		}
		type vaksinRef struct {
			ID       uint   `json:"id"`
			Nama     string `json:"nama"`
			StokUnit int    `json:"stokUnit"`
		}
		type kandangRef struct {
			ID   uint   `json:"id"`
			Nama string `json:"nama"`
		}

		pr := make([]pakanRef, 0, len(pakan))
		for _, p := range pakan {
			pr = append(pr, pakanRef{ID: p.ID, Nama: p.Nama, Jenis: p.Jenis, StokKg: p.StokKg})
		}
		vr := make([]vaksinRef, 0, len(vaksin))
		for _, v := range vaksin {
			vr = append(vr, vaksinRef{ID: v.ID, Nama: v.Nama, StokUnit: v.StokUnit})
		}
		kr := make([]kandangRef, 0, len(daftarKandang))
		for _, k := range daftarKandang {
			kr = append(kr, kandangRef{ID: k.ID, Nama: k.Nama})
		}

		return c.JSON(fiber.Map{
			"pakan":         pr,
			"vaksin":        vr,
			"kandang":       kr,
			"jenisKegiatan": []string{"pemberian_pakan", "vaksinasi", "pembersihan", "lainnya"},
		})
	}
}

func toKegiatanResponse(k models.Kegiatan, namaKandang string) KegiatanResponse {
	return KegiatanResponse{
		ID:               k.ID,
		KandangID:        k.KandangID,
		NamaKandang:      namaKandang,
		JenisKegiatan:    k.JenisKegiatan,
		Tanggal:          k.Tanggal.Format("2006-01-02"),
		Catatan:          k.Catatan,
		PakanID:          k.PakanID,
		JumlahPakanKg:    k.JumlahPakanKg,
		VaksinID:         k.VaksinID,
		JumlahVaksinUnit: k.JumlahVaksinUnit,
	}
}
