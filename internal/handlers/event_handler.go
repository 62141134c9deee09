package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Location    string    `json:"location" binding:"required"`
}

func (r EventRequest) valid() bool {
	return r.EndTime.After(r.StartTime)
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
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

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		UserID:      userID,
	}
	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func ListEvents(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}

	pageNum, limitNum, err := helpers.Pagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var total int64
	if err := gormDB.Model(&models.Event{}).Count(&total).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error counting events.")
		return
	}

	var events []models.Event
	if err := gormDB.Order("start_time").Offset((pageNum - 1) * limitNum).Limit(limitNum).Find(&events).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"page":   pageNum,
		"limit":  limitNum,
		"total":  total,
	})
}

func GetEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "id", "event")
	if !ok {
		return
	}
	gormDB, ok := database(c)
	if !ok {
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithServerError(c, err, "Error retrieving event.")
		return
	}

	var ticketTypes []models.TicketType
	if err := gormDB.Where("event_id = ?", event.ID).Order("price").Find(&ticketTypes).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error retrieving ticket types.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":        event,
		"ticket_types": ticketTypes,
	})
}

func UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, ok := database(c)
	if !ok {
		return
	}
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Location = req.Location

	if err := gormDB.Save(event).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return
	}

	var ticketTypes int64
	if err := gormDB.Model(&models.TicketType{}).Where("event_id = ?", event.ID).Count(&ticketTypes).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error checking ticket types.")
		return
	}
	if ticketTypes > 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Delete the event's ticket types first.")
		return
	}

	if err := gormDB.Delete(event).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}
