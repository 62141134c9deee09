package handlers

import (
	"errors"
	"net/http"

	"github.com/farellandr/boxoffice/internal/helpers"
	"github.com/farellandr/boxoffice/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type teamMember struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func ListTeam(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return
	}

	var staff []models.EventStaff
	if err := gormDB.Preload("User").Where("event_id = ?", event.ID).Order("created_at").Find(&staff).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Error retrieving team.")
		return
	}

	members := make([]teamMember, 0, len(staff))
	for _, member := range staff {
		members = append(members, teamMember{
			UserID: member.UserID.String(),
			Name:   member.User.Name,
			Email:  member.User.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"team": members})
}

func AddTeamMember(c *gin.Context) {
	var req TeamMemberRequest
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

	var user models.User
	if err := gormDB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithServerError(c, err, "Error retrieving user.")
		return
	}

	member := models.EventStaff{EventID: event.ID, UserID: user.ID}
	if err := gormDB.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
		helpers.RespondWithServerError(c, err, "Failed to add team member.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team member added successfully.",
		"user_id": user.ID,
	})
}

func RemoveTeamMember(c *gin.Context) {
	gormDB, ok := database(c)
	if !ok {
		return
	}
	event, ok := managedEvent(c, gormDB)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "userId", "user")
	if !ok {
		return
	}

	result := gormDB.Where("event_id = ? AND user_id = ?", event.ID, userID).Delete(&models.EventStaff{})
	if result.Error != nil {
		helpers.RespondWithServerError(c, result.Error, "Failed to remove team member.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Team member not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member removed successfully.",
	})
}
