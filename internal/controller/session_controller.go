package controller

import (
	"image-processing-be/internal/dto"
	"image-processing-be/internal/pkg/serverutils"
	"image-processing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	SetIdentity(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type sessionController struct {
	service    service.IIdentityService
	cookieName string
}

func NewSessionController(service service.IIdentityService, cookieName string) ISessionController {
	return &sessionController{service: service, cookieName: cookieName}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Post("/", c.SetIdentity)
	h.Get("/", c.GetSession)
	h.Delete("/", c.Logout)
}

func (c *sessionController) SetIdentity(ctx *fiber.Ctx) error {
	var req dto.SetIdentityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetIdentity(ctx.UserContext(), serverutils.CurrentSession(ctx), req.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Welcome, "+res.Username+"!", res))
}

func (c *sessionController) GetSession(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Session", c.service.Describe(serverutils.CurrentSession(ctx))))
}

func (c *sessionController) Logout(ctx *fiber.Ctx) error {
	if err := c.service.Logout(ctx.UserContext(), serverutils.CurrentSession(ctx).ID); err != nil {
		return err
	}
	ctx.ClearCookie(c.cookieName)
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out", nil))
}
