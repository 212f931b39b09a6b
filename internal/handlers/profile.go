// internal/handlers/profile.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"texthunter-back/internal/apierr"
	"texthunter-back/internal/middleware"
	"texthunter-back/internal/models"
	"texthunter-back/internal/session"
)

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type UpdateSettingsRequest struct {
	DarkMode           bool `json:"dark_mode"`
	EmailNotifications bool `json:"email_notifications"`
}

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.CtxUserID)

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			apierr.Respond(c, apierr.New(http.StatusNotFound, apierr.CodeUnauthenticated, err))
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(db *gorm.DB, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.CtxUserID)
		sessionID := c.GetString(middleware.CtxSessionID)
		sessionData := c.MustGet(middleware.CtxSessionData).(session.Data)

		var req UpdateProfileRequest
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
		if len(fields) > 0 {
			apierr.Respond(c, apierr.Validation(fields))
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			apierr.Respond(c, apierr.New(http.StatusNotFound, apierr.CodeUnauthenticated, err))
			return
		}

		// A changed email must stay unique across all other users.
		if user.Email != req.Email {
			var count int64
			if err := db.Model(&models.User{}).
				Where("email = ? AND id <> ?", req.Email, userID).
				Count(&count).Error; err != nil {
				apierr.Respond(c, err)
				return
			}
			if count > 0 {
				apierr.Respond(c, &apierr.Error{
					Status: http.StatusConflict,
					Code:   apierr.CodeDuplicateEmail,
					Fields: map[string]string{"email": "This email address is already in use."},
				})
				return
			}
		}

		user.FullName = req.FullName
		user.Email = req.Email
		if err := db.Save(&user).Error; err != nil {
			apierr.Respond(c, err)
			return
		}

		sessionData.FullName = user.FullName
		sessionData.Email = user.Email
		if err := store.Update(c.Request.Context(), sessionID, sessionData); err != nil {
			apierr.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func GetSettings() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData := c.MustGet(middleware.CtxSessionData).(session.Data)
		c.JSON(http.StatusOK, gin.H{
			"dark_mode":           sessionData.DarkMode,
			"email_notifications": sessionData.EmailNotifications,
		})
	}
}

// UpdateSettings stores UI preference flags in the session only; they do not
// survive logout.
func UpdateSettings(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString(middleware.CtxSessionID)

		var req UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.Respond(c, apierr.New(http.StatusBadRequest, apierr.CodeValidation, err))
			return
		}

		if err := store.SetFlags(c.Request.Context(), sessionID, req.DarkMode, req.EmailNotifications); err != nil {
			apierr.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"dark_mode":           req.DarkMode,
			"email_notifications": req.EmailNotifications,
		})
	}
}
