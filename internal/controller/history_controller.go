package controller

import (
	"image-processing-be/internal/dto"
	"image-processing-be/internal/pkg/serverutils"
	"image-processing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router, adminGuard fiber.Handler)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type historyController struct {
	service service.IHistoryService
}

func NewHistoryController(service service.IHistoryService) IHistoryController {
	return &historyController{service: service}
}

func (c *historyController) RegisterRoutes(r fiber.Router, adminGuard fiber.Handler) {
	h := r.Group("/history")
	h.Get("/", c.List)
	h.Get("/stats", c.Stats)
	h.Get("/:id<int>", c.Get)
	h.Delete("/", adminGuard, c.Clear)
}

func (c *historyController) List(ctx *fiber.Ctx) error {
	var query dto.HistoryQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.ListHistory(ctx.UserContext(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("History", res))
}

func (c *historyController) Get(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid history id")
	}

	res, err := c.service.GetHistoryItem(ctx.UserContext(), uint(id))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("History record", res))
}

func (c *historyController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("History stats", res))
}

func (c *historyController) Clear(ctx *fiber.Ctx) error {
	res, err := c.service.ClearHistory(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("History cleared successfully", res))
}
