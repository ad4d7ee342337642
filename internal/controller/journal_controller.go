package controller

import (
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IJournalController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	ListEntries(ctx *fiber.Ctx) error
	GetEntry(ctx *fiber.Ctx) error
	DeleteEntry(ctx *fiber.Ctx) error
	LastEntry(ctx *fiber.Ctx) error
	Calendar(ctx *fiber.Ctx) error
	WeeklyTrend(ctx *fiber.Ctx) error
	Distribution(ctx *fiber.Ctx) error
	Trends(ctx *fiber.Ctx) error
	Insights(ctx *fiber.Ctx) error
}

type journalController struct {
	service   service.IJournalService
	limiter   *serverutils.RateLimiter
	jwtSecret string
}

func NewJournalController(service service.IJournalService, limiter *serverutils.RateLimiter, jwtSecret string) IJournalController {
	return &journalController{service: service, limiter: limiter, jwtSecret: jwtSecret}
}

func (c *journalController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/journal")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))

	if c.limiter != nil {
		h.Post("/analyze", c.limiter.Middleware(), c.Analyze)
	} else {
		h.Post("/analyze", c.Analyze)
	}

	h.Get("/entries", c.ListEntries)
	h.Get("/entries/last", c.LastEntry)
	h.Get("/entries/:id", c.GetEntry)
	h.Delete("/entries/:id", c.DeleteEntry)

	h.Get("/calendar", c.Calendar)
	h.Get("/weekly-trend", c.WeeklyTrend)
	h.Get("/distribution", c.Distribution)
	h.Get("/trends", c.Trends)
	h.Get("/insights", c.Insights)
}

func (c *journalController) Analyze(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.AnalyzeRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.UserContext(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Analysis complete", res))
}

func (c *journalController) ListEntries(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.EntryListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	items, total, err := c.service.ListEntries(ctx.UserContext(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Journal entries", serverutils.PageResponse[*dto.EntryResponse]{
		Items: items,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}))
}

func entryID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid entry ID")
	}
	return id, nil
}

func (c *journalController) GetEntry(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := entryID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetEntry(ctx.UserContext(), userId, id)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Journal entry", res))
}

func (c *journalController) DeleteEntry(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := entryID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteEntry(ctx.UserContext(), userId, id); err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Entry deleted", nil))
}

func (c *journalController) LastEntry(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.LastEntry(ctx.UserContext(), userId)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Last entry", res))
}

// dateRange reads the common ?from=&to= pair for aggregate endpoints.
func dateRange(ctx *fiber.Ctx) (uuid.UUID, *dto.DateRangeRequest, error) {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return uuid.Nil, nil, err
	}
	var req dto.DateRangeRequest
	if err := ctx.QueryParser(&req); err != nil {
		return uuid.Nil, nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return userId, &req, nil
}

func (c *journalController) Calendar(ctx *fiber.Ctx) error {
	userId, req, err := dateRange(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Calendar(ctx.UserContext(), userId, req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Mood calendar", res))
}

func (c *journalController) WeeklyTrend(ctx *fiber.Ctx) error {
	userId, req, err := dateRange(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.WeeklyTrend(ctx.UserContext(), userId, req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Weekly trend", res))
}

func (c *journalController) Distribution(ctx *fiber.Ctx) error {
	userId, req, err := dateRange(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Distribution(ctx.UserContext(), userId, req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Emotion distribution", res))
}

func (c *journalController) Trends(ctx *fiber.Ctx) error {
	userId, req, err := dateRange(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Trends(ctx.UserContext(), userId, req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Emotion trends", res))
}

func (c *journalController) Insights(ctx *fiber.Ctx) error {
	userId, req, err := dateRange(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.Insights(ctx.UserContext(), userId, req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Mood insights", res))
}
