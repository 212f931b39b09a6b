// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"texthunter-back/internal/apierr"
	"texthunter-back/internal/auth"
	"texthunter-back/internal/models"
	"texthunter-back/internal/session"
)

var errInvalidCredentials = errors.New("email or password is incorrect")

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err))
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(req.FullName) == "" {
			fields["full_name"] = "Full name is required."
		}
		if strings.TrimSpace(req.Email) == "" {
			fields["email"] = "Email is required."
		}
		if strings.TrimSpace(req.Password) == "" {
			fields["password"] = "Password is required."
		}
		if len(fields) > 0 {
			apierr.Respond(c, apierr.Validation(fields))
			return
		}

		// Duplicate check before insert; the unique index is the backstop.
		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			apierr.Respond(c, &apierr.Error{
				Status: http.StatusConflict,
				Code:   apierr.CodeDuplicateEmail,
				Fields: map[string]string{"email": "This email address is already in use."},
			})
			return
		}

		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			apierr.Respond(c, err)
			return
		}

		user := models.User{
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: passwordHash,
			CreatedAt:    time.Now().UTC(),
		}

		if err := db.Create(&user).Error; err != nil {
			apierr.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

func Login(db *gorm.DB, store session.Store, sessionTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err))
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(req.Email) == "" {
			fields["email"] = "Email is required."
		}
		if strings.TrimSpace(req.Password) == "" {
			fields["password"] = "Password is required."
		}
		if len(fields) > 0 {
			apierr.Respond(c, apierr.Validation(fields))
			return
		}

		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			apierr.Respond(c, err)
			return
		}

		// One combined lookup: the response never reveals whether the email
		// or the password was the wrong half.
		var user models.User
		if err := db.Where("email = ? AND password_hash = ?", req.Email, passwordHash).
			First(&user).Error; err != nil {
			apierr.Respond(c, &apierr.Error{
				Status: http.StatusUnauthorized,
				Code:   apierr.CodeInvalidCredentials,
				Err:    errInvalidCredentials,
			})
			return
		}

		sessionID, err := store.Create(c.Request.Context(), session.Data{
			UserID:   user.ID,
			FullName: user.FullName,
			Email:    user.Email,
		})
		if err != nil {
			apierr.Respond(c, err)
			return
		}

		c.SetCookie(session.CookieName, sessionID, int(sessionTTL.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, user)
	}
}

func Logout(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(session.CookieName); err == nil && id != "" {
			_ = store.Destroy(c.Request.Context(), id)
		}
		c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
		c.Status(http.StatusOK)
	}
}
