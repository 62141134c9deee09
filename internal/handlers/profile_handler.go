package handlers

import (
	"errors"
	"net/http"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/middleware"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

func GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gormDB, ok := database(c)
	if !ok {
		return
	}

	var user models.User
	if err := gormDB.Preload("Role").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithServerError(c, err, "Error retrieving user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"phone_number": user.PhoneNumber,
		"role":         user.Role.Name,
	})
}

func ListMyQRCodes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gormDB, ok := database(c)
	if !ok {
		return
	}

	var codes []models.QRCode
	if err := gormDB.Where("user_id = ?", userID).Order("created_at DESC").Find(&codes).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error retrieving QR codes.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr_codes": codes})
}

// GetMyQRCodeImage renders the caller's own admission code as a PNG.
func GetMyQRCodeImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	qrID, ok := pathUUID(c, "id", "QR code")
	if !ok {
		return
	}
	gormDB, ok := database(c)
	if !ok {
		return
	}

	var code models.QRCode
	if err := gormDB.Where("id = ?", qrID).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "QR code not found.")
			return
		}
		helpers.RespondWithServerError(c, err, "Error retrieving QR code.")
		return
	}

	if code.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this QR code.")
		return
	}
	if code.Scanned {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	payload := helpers.QRPayload(code.ID, code.TransactionID, code.UserID, cfg.JWTSecret)
	qrImage, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithServerError(c, err, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
