package controller

import (
	"image-processing-be/internal/apperror"
	"image-processing-be/internal/dto"
	"image-processing-be/internal/pkg/serverutils"
	"image-processing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IImageController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Process(ctx *fiber.Ctx) error
	ListFilters(ctx *fiber.Ctx) error
}

type imageController struct {
	uploadService service.IUploadService
	filterService service.IFilterService
}

func NewImageController(uploadService service.IUploadService, filterService service.IFilterService) IImageController {
	return &imageController{uploadService: uploadService, filterService: filterService}
}

func (c *imageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/images")
	h.Post("/upload", c.Upload)
	h.Post("/process", c.Process)

	r.Get("/filters", c.ListFilters)
}

func (c *imageController) Upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return apperror.ErrNoFileSelected
	}

	src, err := file.Open()
	if err != nil {
		return apperror.Storage("open upload", err)
	}
	defer src.Close()

	res, err := c.uploadService.HandleUpload(ctx.UserContext(), serverutils.CurrentSession(ctx), &dto.UploadFile{
		Filename: file.Filename,
		Size:     file.Size,
		Content:  src,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("File uploaded successfully", res))
}

func (c *imageController) Process(ctx *fiber.Ctx) error {
	var req dto.ProcessImageRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.filterService.ApplyFilter(ctx.UserContext(), serverutils.CurrentSession(ctx), req.Filter)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Image processed with "+res.FilterType+" filter", res))
}

func (c *imageController) ListFilters(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Filters", c.filterService.ListFilters()))
}
