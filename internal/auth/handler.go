package auth

import (
	"strings"

	"ternak-backend/internal/config"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterPemilikRequest struct {
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-pemilik
// Bootstrap akun pemilik pertama; ditolak jika sudah ada.
func RegisterPemilikHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterPemilikRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Nama == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama, email dan password wajib diisi")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("role = ?", models.RolePemilik).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Akun pemilik sudah ada")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password gagal di-hash")
		}

		user := models.User{
			Nama:         body.Nama,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RolePemilik,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User gagal dibuat")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token gagal dibuat")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":        user.ID,
				"nama":      user.Nama,
				"email":     user.Email,
				"role":      user.Role,
				"kandangId": user.KandangID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := database.DB.First(&user, userID).Error; err == nil {
				response := fiber.Map{
					"userId":    user.ID,
					"nama":      user.Nama,
					"email":     user.Email,
					"role":      user.Role,
					"kandangId": user.KandangID,
				}

				// Petugas: sertakan info kandang yang ditugaskan
				if user.KandangID != nil {
					var kandang models.Kandang
					if err := database.DB.First(&kandang, *user.KandangID).Error; err == nil {
						response["kandang"] = fiber.Map{
							"id":     kandang.ID,
							"nama":   kandang.Nama,
							"lokasi": kandang.Lokasi,
						}
					}
				}

				return c.JSON(response)
			}
		}

		return fiber.NewError(fiber.StatusUnauthorized, "User tidak ditemukan")
	}
}
