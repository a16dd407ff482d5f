package unitofwork

import (
	"context"

	"image-processing-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProcessedImageRepository() contract.ProcessedImageRepository
}
