package controller

import (
	"errors"

	"dairy-assistant-be/internal/dto"
	"dairy-assistant-be/internal/pkg/serverutils"
	"dairy-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(router fiber.Router)
	Chat(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type AssistantController struct {
	assistantService service.IAssistantService
	allowedClients   map[int]bool
}

func NewAssistantController(assistantService service.IAssistantService, allowedClients []int) IAssistantController {
	allowed := make(map[int]bool, len(allowedClients))
	for _, id := range allowedClients {
		allowed[id] = true
	}
	return &AssistantController{
		assistantService: assistantService,
		allowedClients:   allowed,
	}
}

func (c *AssistantController) RegisterRoutes(router fiber.Router) {
	assistant := router.Group("/assistant/v1")
	assistant.Post("/chat", c.Chat)
	assistant.Post("/history", c.History)
}

// Chat answers one user message. Client gating failures are the only
// client-visible errors; pipeline breakage still comes back 200 with a
// fallback answer in the body.
func (c *AssistantController) Chat(ctx *fiber.Ctx) error {
	var request dto.ChatRequest
	if err := ctx.BodyParser(&request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if request.ClientId == nil || *request.ClientId == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing Mandatory field client",
		})
	}
	if !c.allowedClients[*request.ClientId] {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid client, you do not have access to Assistant",
		})
	}
	if err := serverutils.ValidateRequest(&request); err != nil {
		return err
	}

	response, err := c.assistantService.Chat(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return ctx.JSON(response)
}

// History returns the durable conversation log of one client user.
func (c *AssistantController) History(ctx *fiber.Ctx) error {
	var request dto.HistoryRequest
	if err := ctx.BodyParser(&request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if request.ClientId == nil || *request.ClientId == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "client_id is required",
		})
	}
	if request.ClientUserId == nil || *request.ClientUserId == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "client_user_id is required",
		})
	}

	response, err := c.assistantService.History(ctx.UserContext(), &request)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDateFormat):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid date format. Use YYYY-MM-DD.",
			})
		case errors.Is(err, service.ErrClientUserNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client user not found",
			})
		default:
			return err
		}
	}

	return ctx.JSON(response)
}
