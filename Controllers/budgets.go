package Controllers

import (
	"strconv"
	"strings"

	"Pulse/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BudgetController manages voice-assistant project participants per budget.
type BudgetController struct {
	DB *gorm.DB
}

func NewBudgetController(db *gorm.DB) *BudgetController {
	return &BudgetController{DB: db}
}

// GetParticipants lists the voice-assistant participants of a budget.
func (c *BudgetController) GetParticipants(ctx *fiber.Ctx) error {
	budgetID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid budget ID"})
	}

	var budget Models.Budget
	if err := c.DB.First(&budget, budgetID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Budget not found"})
	}

	var participants []Models.VoiceAssistantProjectUser
	if err := c.DB.Where("budget_id = ?", budgetID).Find(&participants).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve participants"})
	}

	return ctx.JSON(participants)
}

// AddParticipant attaches one participant to a budget. (budget, email) is
// unique.
func (c *BudgetController) AddParticipant(ctx *fiber.Ctx) error {
	budgetID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid budget ID"})
	}

	var budget Models.Budget
	if err := c.DB.First(&budget, budgetID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Budget not found"})
	}

	var input struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Email == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	participant := Models.VoiceAssistantProjectUser{
		BudgetID: uint(budgetID),
		Email:    input.Email,
		Name:     input.Name,
	}

	if err := c.DB.Create(&participant).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "Duplicate entry") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "This participant is already attached to the budget",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add participant"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(participant)
}

// RemoveParticipant detaches a participant.
func (c *BudgetController) RemoveParticipant(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("participant_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid participant ID"})
	}

	var participant Models.VoiceAssistantProjectUser
	if err := c.DB.First(&participant, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Participant not found"})
	}

	c.DB.Delete(&participant)

	return ctx.JSON(fiber.Map{"message": "Participant removed"})
}
