package contract

import (
	"context"

	"image-processing-be/internal/entity"
	"image-processing-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
