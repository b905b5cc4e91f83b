package Controllers

import (
	"log"

	"Pulse/Counseling"
	"Pulse/Trello"

	"github.com/gofiber/fiber/v2"
)

// CounselingController triggers the staffing recommendation workflow.
type CounselingController struct {
	Service   *Counseling.Service
	TrelloApi *Trello.Api
}

func NewCounselingController(service *Counseling.Service, trelloApi *Trello.Api) *CounselingController {
	return &CounselingController{Service: service, TrelloApi: trelloApi}
}

// RecommendToTrello posts staffing recommendations as a comment on the card.
// The card description is the vacancy description.
func (c *CounselingController) RecommendToTrello(ctx *fiber.Ctx) error {
	var input struct {
		CardID string `json:"card_id"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.CardID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card_id is required"})
	}

	card, err := c.TrelloApi.GetCard(input.CardID)
	if err != nil {
		log.Printf("Error fetching trello card %s: %v", input.CardID, err)
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Card not found"})
	}

	if err := c.Service.SendStaffRecommendationsToTrello(*card); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"message": "Recommendation requested"})
}

// RecommendToBitrix posts staffing recommendations on a CRM entity timeline.
func (c *CounselingController) RecommendToBitrix(ctx *fiber.Ctx) error {
	var input struct {
		EntityID     int    `json:"entity_id"`
		EntityTypeID int    `json:"entity_type_id"`
		Description  string `json:"description"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.EntityID == 0 || input.EntityTypeID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entity_id and entity_type_id are required"})
	}

	if err := c.Service.SendStaffRecommendationsToBitrix(input.EntityID, input.EntityTypeID, input.Description); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"message": "Recommendation requested"})
}
