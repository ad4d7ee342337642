package controller

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	GetDashboardStats(ctx *fiber.Ctx) error
	GetCharts(ctx *fiber.Ctx) error
	GetAllUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
	ExportUsers(ctx *fiber.Ctx) error
	ExportEntries(ctx *fiber.Ctx) error
	ExportReport(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
	Broadcast(ctx *fiber.Ctx) error
}

type adminController struct {
	service     service.IAdminService
	authService service.IAuthService
	jwtSecret   string
}

func NewAdminController(service service.IAdminService, authService service.IAuthService, jwtSecret string) IAdminController {
	return &adminController{
		service:     service,
		authService: authService,
		jwtSecret:   jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")

	h.Post("/login", c.Login)

	h.Use(serverutils.JwtMiddleware(c.jwtSecret), serverutils.AdminOnly)

	// Dashboard
	h.Get("/dashboard", c.GetDashboardStats)
	h.Get("/charts", c.GetCharts)

	// Users
	h.Get("/users", c.GetAllUsers)
	h.Put("/users/:id/status", c.UpdateUserStatus)
	h.Delete("/users/:id", c.DeleteUser)

	// Exports
	h.Get("/export/users", c.ExportUsers)
	h.Get("/export/entries", c.ExportEntries)
	h.Get("/export/report", c.ExportReport)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	h.Post("/broadcast", c.Broadcast)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.LoginAdmin(ctx.UserContext(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", res))
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) GetCharts(ctx *fiber.Ctx) error {
	charts, err := c.service.GetCharts(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard charts", charts))
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	var req dto.AdminUserListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	users, err := c.service.GetAllUsers(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User list", users))
}

func targetUser(ctx *fiber.Ctx) (adminId, userId uuid.UUID, err error) {
	if adminId, err = serverutils.CurrentUserID(ctx); err != nil {
		return
	}
	if userId, err = uuid.Parse(ctx.Params("id")); err != nil {
		err = fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}
	return
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	adminId, userId, err := targetUser(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateUserStatusRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.service.UpdateUserStatus(ctx.UserContext(), adminId, userId, &req); err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	adminId, userId, err := targetUser(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteUser(ctx.UserContext(), adminId, userId); err != nil {
		return mapServiceError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User and their journal deleted", nil))
}

// sendCSV buffers the export so a failure halfway still yields a clean
// JSON error instead of a truncated download.
func sendCSV(ctx *fiber.Ctx, name string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102_150405"))
	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(buf.Bytes())
}

func (c *adminController) ExportUsers(ctx *fiber.Ctx) error {
	return sendCSV(ctx, "users", func(w io.Writer) error {
		return c.service.ExportUsersCSV(ctx.UserContext(), w)
	})
}

func (c *adminController) ExportEntries(ctx *fiber.Ctx) error {
	return sendCSV(ctx, "journal_entries", func(w io.Writer) error {
		return c.service.ExportEntriesCSV(ctx.UserContext(), w)
	})
}

func (c *adminController) ExportReport(ctx *fiber.Ctx) error {
	return sendCSV(ctx, "admin_report", func(w io.Writer) error {
		return c.service.ExportReportCSV(ctx.UserContext(), w)
	})
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)
	level := ctx.Query("level", "")

	logs, err := c.service.GetSystemLogs(ctx.UserContext(), page, limit, level)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	// log ids are content hashes, not UUIDs
	l, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Log not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

func (c *adminController) Broadcast(ctx *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	if err := c.service.Broadcast(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Broadcast queued", nil))
}
