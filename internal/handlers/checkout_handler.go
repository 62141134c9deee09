package handlers

import (
	"errors"
	"net/http"

	"github.com/farellandr/boxoffice/internal/checkout"
	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
}

func checkoutService(c *gin.Context, gormDB *gorm.DB) (*checkout.Service, bool) {
	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment settings not configured.")
		return nil, false
	}
	return checkout.NewService(gormDB, middleware.GetLogger(c), checkout.Settings{
		PublicKey:       cfg.Payment.PublicKey,
		IntegritySecret: cfg.Payment.IntegritySecret,
		EventsSecret:    cfg.Payment.EventsSecret,
		ReferenceSecret: cfg.JWTSecret,
		Currency:        cfg.Payment.Currency,
		RedirectURL:     cfg.Payment.RedirectURL,
		FeeBps:          cfg.Payment.FeeBps,
	}), true
}

func StartCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gormDB, ok := database(c)
	if !ok {
		return
	}
	svc, ok := checkoutService(c, gormDB)
	if !ok {
		return
	}

	session, err := svc.Start(c.Request.Context(), userID, req.TicketTypeID, req.Quantity)
	switch {
	case errors.Is(err, checkout.ErrTicketTypeNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
	case errors.Is(err, checkout.ErrInvalidQuantity), errors.Is(err, checkout.ErrQuantityOverLimit):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		helpers.RespondWithServerError(c, err, "Failed to start checkout.")
	default:
		c.JSON(http.StatusCreated, session)
	}
}

// PaymentEvents receives the payment provider's transaction notifications.
func PaymentEvents(c *gin.Context) {
	var evt checkout.PaymentEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event payload.")
		return
	}

	gormDB, ok := database(c)
	if !ok {
		return
	}
	svc, ok := checkoutService(c, gormDB)
	if !ok {
		return
	}

	transaction, err := svc.ApplyPaymentEvent(c.Request.Context(), evt)
	switch {
	case errors.Is(err, checkout.ErrInvalidChecksum):
		helpers.RespondWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, checkout.ErrInvalidReference), errors.Is(err, checkout.ErrTransactionNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrAmountMismatch), errors.Is(err, checkout.ErrUnknownStatus):
		helpers.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, checkout.ErrAlreadySettled):
		middleware.GetLogger(c).Warn("conflicting payment event", zap.String("reference", evt.Reference), zap.String("status", evt.Status))
		helpers.RespondWithError(c, http.StatusConflict, err.Error())
	case err != nil:
		helpers.RespondWithServerError(c, err, "Failed to apply payment event.")
	default:
		c.JSON(http.StatusOK, gin.H{
			"transaction_id": transaction.ID,
			"status":         transaction.Status,
		})
	}
}
