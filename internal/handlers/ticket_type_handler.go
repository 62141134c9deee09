package handlers

import (
	"errors"
	"net/http"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/farellandr/boxoffice/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TicketTypeRequest struct {
	Name  string `json:"name" binding:"required"`
	Price int64  `json:"price" binding:"required,gt=0"`
	Limit *int   `json:"limit" binding:"omitempty,gt=0"`
}

func CreateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	ticketType := models.TicketType{
		Name:    req.Name,
		Price:   req.Price,
		Limit:   req.Limit,
		EventID: event.ID,
	}
	if err := gormDB.Create(&ticketType).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to create ticket type.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Ticket type created successfully.",
		"ticket_type_id": ticketType.ID,
	})
}

func ListTicketTypes(c *gin.Context) {
	eventID, ok := pathUUID(c, "id", "event")
	if !ok {
		return
	}
	gormDB, ok := database(c)
	if !ok {
		return
	}

	var ticketTypes []models.TicketType
	if err := gormDB.Where("event_id = ?", eventID).Order("price").Find(&ticketTypes).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error retrieving ticket types.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket_types": ticketTypes})
}

// mutableTicketType loads the :ticketTypeId of the managed event and refuses
// it once any ledger references it.
func mutableTicketType(c *gin.Context, gormDB *gorm.DB) (*models.TicketType, bool) {
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return nil, false
	}
	ticketTypeID, ok := pathUUID(c, "ticketTypeId", "ticket type")
	if !ok {
		return nil, false
	}

	var ticketType models.TicketType
	if err := gormDB.Where("id = ? AND event_id = ?", ticketTypeID, event.ID).First(&ticketType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
			return nil, false
		}
		helpers.RespondWithServerError(c, err, "Error retrieving ticket type.")
		return nil, false
	}

	referenced, err := repository.NewLedgerRepository(gormDB).TicketTypeReferenced(c.Request.Context(), ticketType.ID)
	if err != nil {
		helpers.RespondWithServerError(c, err, "Error checking ticket type usage.")
		return nil, false
	}
	if referenced {
		helpers.RespondWithError(c, http.StatusConflict, "Ticket type already has transactions and cannot change.")
		return nil, false
	}
	return &ticketType, true
}

func UpdateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, ok := database(c)
	if !ok {
		return
	}
	ticketType, ok := mutableTicketType(c, gormDB)
	if !ok {
		return
	}

	ticketType.Name = req.Name
	ticketType.Price = req.Price
	ticketType.Limit = req.Limit

	if err := gormDB.Save(ticketType).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to update ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Ticket type updated successfully.",
		"ticket_type": ticketType,
	})
}

func DeleteTicketType(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}
	ticketType, ok := mutableTicketType(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Delete(ticketType).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to delete ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket type deleted successfully.",
	})
}
