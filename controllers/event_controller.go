package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collabhub/models"
	"collabhub/utils"
)

type EventController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewEventController(db *gorm.DB, logger *log.Logger) *EventController {
	return &EventController{
		DB:     db,
		Logger: logger,
	}
}

type eventInput struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"omitempty,max=1000"`
	Start        *time.Time `json:"start" validate:"required"`
	End          *time.Time `json:"end" validate:"required"`
	GroupID      *uint      `json:"group_id"`
	Participants []uint     `json:"participants"`
}

// CreateEvent creates a calendar event. The target group id is not checked
// against the caller's memberships; participant ids are taken as given.
func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input eventInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Start.After(*input.End) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Event start must not be after end", nil)
	}

	event := models.CalendarEvent{
		Title:       input.Title,
		Description: input.Description,
		StartAt:     *input.Start,
		EndAt:       *input.End,
		GroupID:     input.GroupID,
		CreatedBy:   user.ID,
	}
	for _, uid := range input.Participants {
		event.Participants = append(event.Participants, models.EventParticipant{UserID: uid})
	}

	if err := ec.DB.Create(&event).Error; err != nil {
		ec.Logger.Printf("Failed to create event: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create event", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(event))
}

// GetEvents lists events the caller created, participates in, or that are
// scoped to one of the caller's groups.
func (ec *EventController) GetEvents(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	participating := ec.DB.Model(&models.EventParticipant{}).
		Select("event_id").
		Where("user_id = ?", user.ID)
	memberOf := ec.DB.Model(&models.GroupMember{}).
		Select("group_id").
		Where("user_id = ?", user.ID)

	var events []models.CalendarEvent
	if err := ec.DB.Preload("Participants").
		Where("created_by = ?", user.ID).
		Or("id IN (?)", participating).
		Or("group_id IN (?)", memberOf).
		Order("start_at").
		Find(&events).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list events", err)
	}

	return c.JSON(utils.SuccessResponse(events))
}

// UpdateEvent lets the creator change event fields. An absent event and an
// event created by someone else are indistinguishable to the caller.
func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", err)
	}

	var event models.CalendarEvent
	if err := ec.DB.Where("id = ? AND created_by = ?", eventID, user.ID).First(&event).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Event not found", nil)
	}

	var input struct {
		Title       *string    `json:"title" validate:"omitempty,max=200"`
		Description *string    `json:"description" validate:"omitempty,max=1000"`
		Start       *time.Time `json:"start"`
		End         *time.Time `json:"end"`
		GroupID     *uint      `json:"group_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Start != nil {
		event.StartAt = *input.Start
	}
	if input.End != nil {
		event.EndAt = *input.End
	}
	if input.GroupID != nil {
		event.GroupID = input.GroupID
	}
	if event.StartAt.After(event.EndAt) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Event start must not be after end", nil)
	}

	if err := ec.DB.Save(&event).Error; err != nil {
		ec.Logger.Printf("Failed to update event %d: %v", event.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update event", err)
	}

	return c.JSON(utils.SuccessResponse(event))
}

// DeleteEvent removes an event and its participant rows. Creator-only.
func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	eventID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", err)
	}

	var event models.CalendarEvent
	if err := ec.DB.Where("id = ? AND created_by = ?", eventID, user.ID).First(&event).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Event not found", nil)
	}

	err = ec.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		ec.Logger.Printf("Failed to delete event %d: %v", event.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete event", err)
	}

	return c.JSON(utils.SuccessResponse(event))
}
