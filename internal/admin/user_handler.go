package admin

import (
	"fmt"
	"strings"

	"ternak-backend/internal/audit"
	"ternak-backend/internal/auth"
	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Nama      string `json:"nama"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`      // operator | petugas
	KandangID *uint  `json:"kandangId"` // wajib untuk petugas
}

type UpdateUserRequest struct {
	Nama      *string `json:"nama"`
	Password  *string `json:"password"`
	KandangID *uint   `json:"kandangId"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Nama        string `json:"nama"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	KandangID   *uint  `json:"kandangId,omitempty"`
	NamaKandang string `json:"namaKandang,omitempty"`
	CreatedAt   string `json:"createdAt"`
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

// POST /api/admin/users
// Pemilik membuat akun operator atau petugas. Petugas harus ditugaskan ke
// satu kandang saat dibuat.
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Nama = strings.TrimSpace(body.Nama)
		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if body.Nama == "" || body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama dan email wajib diisi")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password minimal 8 karakter")
		}

		role := models.UserRole(body.Role)
		if role != models.RoleOperator && role != models.RolePetugas {
			return fiber.NewError(fiber.StatusBadRequest, "Role tidak valid (operator|petugas)")
		}

		var kandangID *uint
		if role == models.RolePetugas {
			if body.KandangID == nil || *body.KandangID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Petugas harus ditugaskan ke kandang")
			}
			var kandang models.Kandang
			if err := database.DB.First(&kandang, "id = ?", *body.KandangID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kandang tidak ditemukan")
			}
			kandangID = body.KandangID
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password gagal diproses")
		}

		user := models.User{
			Nama:         body.Nama,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
			KandangID:    kandangID,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User gagal dibuat")
		}

		adminID, adminName, err := getUserInfo(c)
		if err != nil {
			return err
		}
		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   kandangID,
			UserID:      adminID,
			UserName:    adminName,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("User %s (%s) dibuat", user.Nama, user.Role),
			Before:      nil,
			After:       fiber.Map{"id": user.ID, "nama": user.Nama, "email": user.Email, "role": user.Role},
		})

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user, ""))
	}
}

// GET /api/admin/users?role=
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{}).Preload("Kandang")
		if role := c.Query("role"); role != "" {
			dbq = dbq.Where("role = ?", role)
		}

		var users []models.User
		if err := dbq.Order("nama ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User gagal diambil")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			nama := ""
			if u.Kandang != nil {
				nama = u.Kandang.Nama
			}
			res = append(res, toUserResponse(u, nama))
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/users/:id
// Ganti nama, password, atau penugasan kandang (petugas saja).
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		before := fiber.Map{"nama": user.Nama, "kandangId": user.KandangID}

		if body.Nama != nil && strings.TrimSpace(*body.Nama) != "" {
			user.Nama = strings.TrimSpace(*body.Nama)
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "Password minimal 8 karakter")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Password gagal diproses")
			}
			user.PasswordHash = string(hash)
		}
		if body.KandangID != nil {
			if user.Role != models.RolePetugas {
				return fiber.NewError(fiber.StatusBadRequest, "Hanya petugas yang bisa ditugaskan ke kandang")
			}
			var kandang models.Kandang
			if err := database.DB.First(&kandang, "id = ?", *body.KandangID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kandang tidak ditemukan")
			}
			user.KandangID = body.KandangID
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User gagal diperbarui")
		}

		adminID, adminName, err := getUserInfo(c)
		if err != nil {
			return err
		}
		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   user.KandangID,
			UserID:      adminID,
			UserName:    adminName,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("User %s diperbarui", user.Nama),
			Before:      before,
			After:       fiber.Map{"nama": user.Nama, "kandangId": user.KandangID},
		})

		return c.JSON(toUserResponse(user, ""))
	}
}

// DELETE /api/admin/users/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
		}

		adminID, adminName, err := getUserInfo(c)
		if err != nil {
			return err
		}
		if adminID == uint(id) {
			return fiber.NewError(fiber.StatusBadRequest, "Tidak bisa menghapus akun sendiri")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}

		if err := database.DB.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User gagal dihapus")
		}

		_ = audit.WriteLog(audit.LogOptions{
			KandangID:   user.KandangID,
			UserID:      adminID,
			UserName:    adminName,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("User %s (%s) dihapus", user.Nama, user.Role),
			Before:      fiber.Map{"id": user.ID, "nama": user.Nama, "email": user.Email, "role": user.Role},
			After:       nil,
		})

		return c.JSON(fiber.Map{"message": "User berhasil dihapus"})
	}
}

func toUserResponse(u models.User, namaKandang string) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Nama:        u.Nama,
		Email:       u.Email,
		Role:        string(u.Role),
		KandangID:   u.KandangID,
		NamaKandang: namaKandang,
		CreatedAt:   u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
