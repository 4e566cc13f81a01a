package controller

import (
	"errors"
	"io"

	"report-assistant-be/internal/dto"
	"report-assistant-be/internal/pkg/serverutils"
	"report-assistant-be/internal/service"
	"report-assistant-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	UploadReport(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	ResetConversation(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Post("/session", c.CreateSession)
	h.Get("/session/:id", c.GetSession)
	h.Delete("/session/:id", c.DeleteSession)
	h.Post("/session/:id/upload", c.UploadReport)
	h.Post("/session/:id/chat", c.SendChat)
	h.Post("/session/:id/reset", c.ResetConversation)
}

func (c *reportController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext())
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *reportController) GetSession(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *reportController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.UserContext(), id); err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

func (c *reportController) UploadReport(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Report file is required")
	}

	f, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Report file could not be opened")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Report file could not be read")
	}

	req := dto.UploadReportRequest{
		Filename:  file.Filename,
		MediaType: file.Header.Get("Content-Type"),
		Content:   content,
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UploadReport(ctx.UserContext(), id, &req)
	if err != nil {
		return toHTTPError(err)
	}

	message := "Report loaded"
	if !res.Loaded {
		message = "Report already loaded"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *reportController) SendChat(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.UserContext(), id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *reportController) ResetConversation(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ResetConversation(ctx.UserContext(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation reset", res))
}

func sessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

// toHTTPError maps session sentinels to status codes. Anything unrecognised
// came from the language model backend.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotReady), errors.Is(err, session.ErrNoDocument):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, session.ErrEmptyMessage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
}
