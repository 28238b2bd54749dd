package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collabhub/models"
	"collabhub/utils"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTaskController(db *gorm.DB, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

// CreateTask creates a task. Neither the group id nor the assignee is
// checked against group membership; the assignee does not have to be a
// member of the task's group.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Title       string     `json:"title" validate:"required,max=200"`
		Description string     `json:"description" validate:"omitempty,max=1000"`
		DueDate     *time.Time `json:"due_date"`
		GroupID     *uint      `json:"group_id"`
		AssignedTo  *uint      `json:"assigned_to"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		GroupID:     input.GroupID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   user.ID,
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		tc.Logger.Printf("Failed to create task: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTasks lists tasks the caller created, is assigned to, or that belong
// to one of the caller's groups.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	memberOf := tc.DB.Model(&models.GroupMember{}).
		Select("group_id").
		Where("user_id = ?", user.ID)

	var tasks []models.Task
	if err := tc.DB.
		Where("created_by = ?", user.ID).
		Or("assigned_to = ?", user.ID).
		Or("group_id IN (?)", memberOf).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// UpdateTask applies field changes. The creator may change anything; the
// assignee may only toggle completed. Everyone else sees a 404, same as
// for a task that does not exist.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task ID", err)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND (created_by = ? OR assigned_to = ?)", taskID, user.ID, user.ID).
		First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var input struct {
		Title       *string    `json:"title" validate:"omitempty,max=200"`
		Description *string    `json:"description" validate:"omitempty,max=1000"`
		DueDate     *time.Time `json:"due_date"`
		GroupID     *uint      `json:"group_id"`
		AssignedTo  *uint      `json:"assigned_to"`
		Completed   *bool      `json:"completed"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if task.CreatedBy == user.ID {
		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.DueDate != nil {
			task.DueDate = input.DueDate
		}
		if input.GroupID != nil {
			task.GroupID = input.GroupID
		}
		if input.AssignedTo != nil {
			task.AssignedTo = input.AssignedTo
		}
	}
	// Completed is the one field the assignee may mutate
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := tc.DB.Save(&task).Error; err != nil {
		tc.Logger.Printf("Failed to update task %d: %v", task.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// DeleteTask removes a task. Creator-only; the assignee cannot delete.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task ID", err)
	}

	var task models.Task
	if err := tc.DB.Where("id = ? AND created_by = ?", taskID, user.ID).First(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	if err := tc.DB.Delete(&task).Error; err != nil {
		tc.Logger.Printf("Failed to delete task %d: %v", task.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}
