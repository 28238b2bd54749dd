package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collabhub/models"
	"collabhub/utils"
)

type PollController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewPollController(db *gorm.DB, logger *log.Logger) *PollController {
	return &PollController{
		DB:     db,
		Logger: logger,
	}
}

// CreatePoll creates a poll with at least two options. Options start with
// zero votes and empty voter sets.
func (pc *PollController) CreatePoll(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Question string     `json:"question" validate:"required,max=500"`
		Options  []string   `json:"options" validate:"required,min=2,dive,required"`
		ClosesAt *time.Time `json:"closes_at"`
		GroupID  *uint      `json:"group_id"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	poll := models.Poll{
		Question:  input.Question,
		GroupID:   input.GroupID,
		CreatedBy: user.ID,
		ClosesAt:  input.ClosesAt,
	}
	for i, text := range input.Options {
		poll.Options = append(poll.Options, models.PollOption{
			Position: i,
			Text:     text,
		})
	}

	if err := pc.DB.Create(&poll).Error; err != nil {
		pc.Logger.Printf("Failed to create poll: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create poll", err)
	}

	pc.sortOptions(&poll)
	for i := range poll.Options {
		poll.Options[i].Voters = []uint{}
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(poll))
}

// GetPolls lists open polls: closes_at unset or still in the future. The
// open/closed transition is evaluated here, never by a sweeper.
func (pc *PollController) GetPolls(c *fiber.Ctx) error {
	var polls []models.Poll
	if err := pc.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("poll_options.position")
	}).
		Where("closes_at IS NULL OR closes_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&polls).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list polls", err)
	}

	for i := range polls {
		if err := pc.attachVoters(&polls[i]); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load votes", err)
		}
	}

	return c.JSON(utils.SuccessResponse(polls))
}

// Vote casts the caller's ballot for one option and returns the updated
// poll. Checks run in order: existence, closing time, option bounds, then
// the vote itself. One-vote-per-user is enforced by the unique index on
// poll_votes(poll_id, user_id), so the insert is a single conditional
// operation rather than a check-then-act round trip; the counter bump is
// an SQL-level increment inside the same transaction, so simultaneous
// distinct voters cannot lose updates.
func (pc *PollController) Vote(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	pollID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid poll ID", err)
	}

	var input struct {
		OptionIndex *int `json:"option_index" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var poll models.Poll
	if err := pc.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("poll_options.position")
	}).First(&poll, pollID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Poll not found", nil)
	}

	if poll.Closed(time.Now()) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Poll is closed", nil)
	}

	idx := *input.OptionIndex
	if idx < 0 || idx >= len(poll.Options) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid option", nil)
	}
	option := poll.Options[idx]

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		vote := models.PollVote{
			PollID:   poll.ID,
			OptionID: option.ID,
			UserID:   user.ID,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.PollOption{}).
			Where("id = ?", option.ID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error
	})
	if err != nil {
		if isDuplicateVote(err) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "You have already voted in this poll", nil)
		}
		utils.LogError("poll_vote_failed", err, map[string]interface{}{
			"poll_id": poll.ID,
			"user_id": user.ID,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record vote", err)
	}

	utils.LogEvent("poll_vote", map[string]interface{}{
		"poll_id":      poll.ID,
		"option_index": idx,
		"user_id":      user.ID,
	})

	// Reload for the response so the caller sees all current counts
	if err := pc.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("poll_options.position")
	}).First(&poll, poll.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load poll", err)
	}
	if err := pc.attachVoters(&poll); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load votes", err)
	}

	return c.JSON(utils.SuccessResponse(poll))
}

// DeletePoll removes a poll with its options and votes. Creator-only; a
// missing poll and someone else's poll produce the same 404.
func (pc *PollController) DeletePoll(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	pollID, err := c.ParamsInt("id")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid poll ID", err)
	}

	var poll models.Poll
	if err := pc.DB.Where("id = ? AND created_by = ?", pollID, user.ID).First(&poll).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Poll not found", nil)
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", poll.ID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", poll.ID).Delete(&models.PollOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&poll).Error
	})
	if err != nil {
		pc.Logger.Printf("Failed to delete poll %d: %v", poll.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete poll", err)
	}

	return c.JSON(utils.SuccessResponse(poll))
}

// attachVoters fills each option's voter list from poll_votes.
func (pc *PollController) attachVoters(poll *models.Poll) error {
	var votes []models.PollVote
	if err := pc.DB.Where("poll_id = ?", poll.ID).Order("cast_at").Find(&votes).Error; err != nil {
		return err
	}

	byOption := make(map[uint][]uint)
	for _, v := range votes {
		byOption[v.OptionID] = append(byOption[v.OptionID], v.UserID)
	}
	for i := range poll.Options {
		opt := &poll.Options[i]
		opt.Voters = byOption[opt.ID]
		if opt.Voters == nil {
			opt.Voters = []uint{}
		}
	}
	return nil
}

func (pc *PollController) sortOptions(poll *models.Poll) {
	for i := range poll.Options {
		if poll.Options[i].Position != i {
			// Options came back out of creation order; re-sort by position
			for j := i + 1; j < len(poll.Options); j++ {
				if poll.Options[j].Position == i {
					poll.Options[i], poll.Options[j] = poll.Options[j], poll.Options[i]
					break
				}
			}
		}
	}
}

// isDuplicateVote reports whether err is the unique-index violation raised
// when a user votes twice on the same poll. The string checks cover
// drivers that predate gorm's error translation.
func isDuplicateVote(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
