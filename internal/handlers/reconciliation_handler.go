package handlers

import (
	"net/http"

	"github.com/farellandr/boxoffice/internal/accounting"
	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/middleware"
	"github.com/farellandr/boxoffice/internal/reconcile"
	"github.com/farellandr/boxoffice/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reconcileService(c *gin.Context, gormDB *gorm.DB) *reconcile.Service {
	var opts reconcile.Options
	if cfg := middleware.GetConfig(c); cfg != nil {
		opts = reconcile.Options{
			PageSize:  cfg.Reconcile.PageSize,
			BatchSize: cfg.Reconcile.BatchSize,
			Strict:    cfg.Reconcile.Strict,
		}
	}
	return reconcile.NewService(repository.NewLedgerRepository(gormDB), middleware.GetLogger(c), opts)
}

// GetQRReconciliation lists every issued QR code of the event and every paid
// transaction that is short of codes.
func GetQRReconciliation(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return
	}

	report, err := reconcileService(c, gormDB).Reconcile(c.Request.Context(), event.ID)
	if err != nil {
		helpers.RespondWithServerError(c, err, "Failed to reconcile QR codes.")
		return
	}

	c.JSON(http.StatusOK, report)
}

func GetAccounting(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return
	}

	rollup, err := accounting.Summarize(c.Request.Context(), reconcileService(c, gormDB), event.ID)
	if err != nil {
		helpers.RespondWithServerError(c, err, "Failed to compute accounting rollup.")
		return
	}

	c.JSON(http.StatusOK, rollup)
}
