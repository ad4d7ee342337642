package controller

import (
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWellnessController interface {
	RegisterRoutes(r fiber.Router)
}

type wellnessController struct {
	service   service.IWellnessService
	quotes    service.IQuoteService
	jwtSecret string
}

func NewWellnessController(service service.IWellnessService, quotes service.IQuoteService, jwtSecret string) IWellnessController {
	return &wellnessController{service: service, quotes: quotes, jwtSecret: jwtSecret}
}

func (c *wellnessController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wellness")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("/summary", c.WeeklySummary)
	h.Get("/prompt", c.Prompt)
	h.Get("/activities", c.Activities)
	h.Get("/resources", c.Resources)
	h.Get("/quote", c.Quote)

	h.Get("/check-ins/status", c.CheckInStatus)
	h.Get("/check-ins", c.ListCheckIns)
	h.Post("/check-ins", c.CreateCheckIn)
}

func (c *wellnessController) WeeklySummary(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.WeeklySummary(ctx.UserContext(), userId)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Weekly summary", res))
}

func (c *wellnessController) Prompt(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Reflection prompt", c.service.Prompt(ctx.UserContext())))
}

func (c *wellnessController) Activities(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Self-care activities", c.service.Activities(ctx.UserContext())))
}

func (c *wellnessController) Resources(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Mental health resources", c.service.Resources(ctx.UserContext())))
}

func (c *wellnessController) Quote(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Quote of the day", c.quotes.Today(ctx.UserContext())))
}

func (c *wellnessController) CheckInStatus(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.CheckInStatus(ctx.UserContext(), userId)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Check-in status", res))
}

func (c *wellnessController) CreateCheckIn(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CheckInRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.CreateCheckIn(ctx.UserContext(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Check-in saved", res))
}

func (c *wellnessController) ListCheckIns(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	limit := ctx.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	res, err := c.service.ListCheckIns(ctx.UserContext(), userId, limit)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Check-ins", res))
}
