package handlers

import (
	"errors"
	"net/http"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/middleware"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func database(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return db, true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID.")
		return uuid.Nil, false
	}
	return id, true
}

// managedEvent loads the event in the :id path parameter and checks that the
// caller produces it or is an admin.
func managedEvent(c *gin.Context, db *gorm.DB) (*models.Event, bool) {
	eventID, ok := pathUUID(c, "id", "event")
	if !ok {
		return nil, false
	}
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return nil, false
		}
		helpers.RespondWithServerError(c, err, "Error retrieving event.")
		return nil, false
	}

	if event.UserID != userID && middleware.GetRole(c) != models.RoleAdmin {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to manage this event.")
		return nil, false
	}
	return &event, true
}

// canScan reports whether userID may scan codes for event: its producer, an
// admin, or a member of its team.
func canScan(db *gorm.DB, event *models.Event, userID uuid.UUID, role string) (bool, error) {
	if event.UserID == userID || role == models.RoleAdmin {
		return true, nil
	}
	var count int64
	err := db.Model(&models.EventStaff{}).Where("event_id = ? AND user_id = ?", event.ID, userID).Count(&count).Error
	return count > 0, err
}
