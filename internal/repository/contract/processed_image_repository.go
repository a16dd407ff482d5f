package contract

import (
	"context"

	"image-processing-be/internal/entity"
	"image-processing-be/internal/repository/specification"
)

type ProcessedImageRepository interface {
	Create(ctx context.Context, image *entity.ProcessedImage) error
	// FindOne returns nil, nil when nothing matches.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcessedImage, error)
	// FindNewestFirst lists records by created_at DESC, id DESC.
	FindNewestFirst(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessedImage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByFilter(ctx context.Context) ([]entity.FilterCount, error)
	DeleteAll(ctx context.Context) (int64, error)
}
