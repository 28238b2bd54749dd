package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collabhub/models"
	"collabhub/utils"
)

type GroupController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewGroupController(db *gorm.DB, logger *log.Logger) *GroupController {
	return &GroupController{
		DB:     db,
		Logger: logger,
	}
}

// CreateGroup creates a group with the caller as its first member. The
// group row and the creator's membership row are written in one
// transaction so a group can never exist without its creator in it.
func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"omitempty,max=500"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	group := models.Group{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   user.ID,
	}

	err := gc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		membership := models.GroupMember{
			GroupID: group.ID,
			UserID:  user.ID,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		utils.LogError("group_create_failed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create group", err)
	}

	if err := gc.DB.Preload("Members").First(&group, group.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load group", err)
	}

	utils.LogEvent("group_created", map[string]interface{}{
		"group_id": group.ID,
		"user_id":  user.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(group))
}

// GetGroups lists every group the caller is a member of.
func (gc *GroupController) GetGroups(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	memberOf := gc.DB.Model(&models.GroupMember{}).
		Select("group_id").
		Where("user_id = ?", user.ID)

	var groups []models.Group
	if err := gc.DB.Preload("Members").
		Where("id IN (?)", memberOf).
		Order("created_at DESC").
		Find(&groups).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list groups", err)
	}

	return c.JSON(utils.SuccessResponse(groups))
}
