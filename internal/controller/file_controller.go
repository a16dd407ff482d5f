package controller

import (
	"errors"
	"mime"
	"path/filepath"

	"image-processing-be/internal/apperror"
	"image-processing-be/pkg/filestore"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	GetUpload(ctx *fiber.Ctx) error
	GetProcessed(ctx *fiber.Ctx) error
}

type fileController struct {
	uploads   filestore.Store
	processed filestore.Store
}

func NewFileController(uploads, processed filestore.Store) IFileController {
	return &fileController{uploads: uploads, processed: processed}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files")
	h.Get("/uploads/:filename", c.GetUpload)
	h.Get("/processed/:filename", c.GetProcessed)
}

func (c *fileController) GetUpload(ctx *fiber.Ctx) error {
	return c.serve(ctx, c.uploads)
}

func (c *fileController) GetProcessed(ctx *fiber.Ctx) error {
	return c.serve(ctx, c.processed)
}

func (c *fileController) serve(ctx *fiber.Ctx, store filestore.Store) error {
	name := ctx.Params("filename")
	if !filestore.ValidName(name) {
		return apperror.ErrInvalidFilename
	}

	data, err := store.Get(ctx.UserContext(), name)
	if err != nil {
		if errors.Is(err, filestore.ErrNotExist) {
			return apperror.ErrFileNotFound
		}
		return apperror.Storage("read file", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return ctx.Send(data)
}
