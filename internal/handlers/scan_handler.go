package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/middleware"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/farellandr/boxoffice/internal/repository"
	"github.com/farellandr/boxoffice/internal/scanning"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ToggleScanRequest struct {
	Scanned *bool `json:"scanned" binding:"required"`
}

type ValidateQRRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}

// qrEvent resolves the event a code admits to through its transaction and
// ticket type.
func qrEvent(ctx context.Context, gormDB *gorm.DB, code *models.QRCode) (*models.Event, error) {
	transaction, err := repository.NewLedgerRepository(gormDB).FindTransaction(ctx, code.TransactionID)
	if err != nil {
		return nil, err
	}

	var ticketType models.TicketType
	if err := gormDB.Preload("Event").Where("id = ?", transaction.TicketTypeID).First(&ticketType).Error; err != nil {
		return nil, err
	}
	return &ticketType.Event, nil
}

func findCode(gormDB *gorm.DB, qrID uuid.UUID) (*models.QRCode, error) {
	var code models.QRCode
	if err := gormDB.Where("id = ?", qrID).First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// authorizeScan checks the caller may scan code. It answers the request
// itself when it returns false.
func authorizeScan(c *gin.Context, gormDB *gorm.DB, code *models.QRCode) bool {
	event, err := qrEvent(c.Request.Context(), gormDB, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "QR code has no matching order.")
			return false
		}
		helpers.RespondWithServerError(c, err, "Error resolving QR code event.")
		return false
	}

	if userID, ok := middleware.GetUserID(c); ok {
		allowed, err := canScan(gormDB, event, userID, middleware.GetRole(c))
		if err != nil {
			helpers.RespondWithServerError(c, err, "Error checking scan permission.")
			return false
		}
		if !allowed {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to scan tickets for this event.")
			return false
		}
	}
	return true
}

// scannableCode loads a QR code and checks the caller may scan it. It
// answers the request itself when it returns false.
func scannableCode(c *gin.Context, gormDB *gorm.DB, qrID uuid.UUID) (*models.QRCode, bool) {
	code, err := findCode(gormDB, qrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "QR code not found.")
			return nil, false
		}
		helpers.RespondWithServerError(c, err, "Error retrieving QR code.")
		return nil, false
	}
	if !authorizeScan(c, gormDB, code) {
		return nil, false
	}
	return code, true
}

func respondToggle(c *gin.Context, result scanning.Result) {
	switch {
	case result.Success:
		c.JSON(http.StatusOK, result)
	case result.Error == scanning.MsgNotAuthenticated:
		c.JSON(http.StatusUnauthorized, result)
	case result.Error == scanning.MsgStale:
		c.JSON(http.StatusConflict, result)
	default:
		c.JSON(http.StatusInternalServerError, result)
	}
}

func actor(c *gin.Context) *uuid.UUID {
	if userID, ok := middleware.GetUserID(c); ok {
		return &userID
	}
	return nil
}

// ToggleScan flips a code's scanned flag from the value the caller saw.
func ToggleScan(c *gin.Context) {
	var req ToggleScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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
	svc := scanning.NewService(gormDB, middleware.GetLogger(c))

	caller := actor(c)
	if caller == nil {
		respondToggle(c, svc.Toggle(c.Request.Context(), qrID, *req.Scanned, nil))
		return
	}

	code, ok := scannableCode(c, gormDB, qrID)
	if !ok {
		return
	}

	respondToggle(c, svc.Toggle(c.Request.Context(), code.ID, *req.Scanned, caller))
}

// ValidateQR admits the holder of a signed QR payload, marking the code as
// scanned. A code that was already scanned is refused. An unknown id
// answers like a bad signature, and event permission is checked only once
// the signature holds.
func ValidateQR(c *gin.Context) {
	var req ValidateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	qrID, transactionID, signature, err := helpers.ParseQRPayload(req.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format.")
		return
	}

	gormDB, ok := database(c)
	if !ok {
		return
	}
	caller := actor(c)
	if caller == nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	code, err := findCode(gormDB, qrID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		helpers.RespondWithServerError(c, err, "Error retrieving QR code.")
		return
	}
	if code == nil || code.TransactionID != transactionID ||
		!helpers.ValidQRSignature(code.ID, code.TransactionID, code.UserID, signature, cfg.JWTSecret) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature.")
		return
	}

	if !authorizeScan(c, gormDB, code) {
		return
	}

	if code.Scanned {
		helpers.RespondWithError(c, http.StatusConflict, "Ticket already used.")
		return
	}

	respondToggle(c, scanning.NewService(gormDB, middleware.GetLogger(c)).Toggle(c.Request.Context(), code.ID, false, caller))
}
