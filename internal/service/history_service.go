package service

import (
	"context"
	"strings"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/dto"
	"image-processing-be/internal/entity"
	"image-processing-be/internal/events"
	"image-processing-be/internal/metrics"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/specification"
	"image-processing-be/internal/repository/unitofwork"
	"image-processing-be/pkg/filestore"
)

type IHistoryService interface {
	ListHistory(ctx context.Context, query dto.HistoryQuery) ([]*dto.HistoryItemResponse, error)
	GetHistoryItem(ctx context.Context, id uint) (*dto.HistoryItemResponse, error)
	Stats(ctx context.Context) (*dto.HistoryStatsResponse, error)
	// ClearHistory removes every stored file, history record and user.
	ClearHistory(ctx context.Context) (*dto.ClearHistoryResponse, error)
}

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
	uploads    filestore.Store
	processed  filestore.Store
	publisher  events.Publisher
	feed       IPublisherService
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewHistoryService(
	uowFactory unitofwork.RepositoryFactory,
	uploads filestore.Store,
	processed filestore.Store,
	publisher events.Publisher,
	feed IPublisherService,
	metrics *metrics.Metrics,
	logger logger.ILogger,
) IHistoryService {
	return &historyService{
		uowFactory: uowFactory,
		uploads:    uploads,
		processed:  processed,
		publisher:  publisher,
		feed:       feed,
		metrics:    metrics,
		logger:     logger,
	}
}

func toHistoryItem(img *entity.ProcessedImage) *dto.HistoryItemResponse {
	return &dto.HistoryItemResponse{
		Id:                img.Id,
		UserId:            img.UserId,
		Username:          img.UserName,
		OriginalFilename:  img.OriginalFilename,
		ProcessedFilename: img.ProcessedFilename,
		FilterType:        img.FilterKind,
		OriginalURL:       dto.UploadedFileURL(img.OriginalFilename),
		ProcessedURL:      dto.ProcessedFileURL(img.ProcessedFilename),
		CreatedAt:         img.CreatedAt,
	}
}

func (s *historyService) ListHistory(ctx context.Context, query dto.HistoryQuery) ([]*dto.HistoryItemResponse, error) {
	var specs []specification.Specification
	if query.Filter != "" {
		specs = append(specs, specification.ByFilterKind{Kind: strings.TrimSpace(query.Filter)})
	}
	if query.Username != "" {
		specs = append(specs, specification.ByUserName{Name: strings.TrimSpace(query.Username)})
	}
	if query.UserID != 0 {
		specs = append(specs, specification.ByUserID{UserID: query.UserID})
	}
	specs = append(specs, specification.Pagination{Limit: query.Limit, Offset: query.Offset})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	images, err := uow.ProcessedImageRepository().FindNewestFirst(ctx, specs...)
	if err != nil {
		return nil, apperror.Storage("list history", err)
	}

	res := make([]*dto.HistoryItemResponse, 0, len(images))
	for _, img := range images {
		res = append(res, toHistoryItem(img))
	}
	return res, nil
}

func (s *historyService) GetHistoryItem(ctx context.Context, id uint) (*dto.HistoryItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	img, err := uow.ProcessedImageRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Storage("find history record", err)
	}
	if img == nil {
		return nil, apperror.ErrRecordNotFound
	}
	return toHistoryItem(img), nil
}

func (s *historyService) Stats(ctx context.Context) (*dto.HistoryStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	images, err := uow.ProcessedImageRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Storage("count history", err)
	}
	users, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Storage("count users", err)
	}
	counts, err := uow.ProcessedImageRepository().CountByFilter(ctx)
	if err != nil {
		return nil, apperror.Storage("count by filter", err)
	}

	res := &dto.HistoryStatsResponse{
		TotalImages: images,
		TotalUsers:  users,
		ByFilter:    make([]dto.FilterCountEntry, 0, len(counts)),
	}
	for _, c := range counts {
		res.ByFilter = append(res.ByFilter, dto.FilterCountEntry{FilterType: c.FilterKind, Total: c.Total})
	}
	return res, nil
}

func (s *historyService) ClearHistory(ctx context.Context) (*dto.ClearHistoryResponse, error) {
	res := &dto.ClearHistoryResponse{}

	var err error
	if res.UploadFilesDeleted, err = s.uploads.DeleteAll(ctx); err != nil {
		return nil, apperror.Storage("delete uploads", err)
	}
	if res.ProcessedFilesDeleted, err = s.processed.DeleteAll(ctx); err != nil {
		return nil, apperror.Storage("delete processed images", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Storage("begin transaction", err)
	}
	defer uow.Rollback()

	// processed_images references users, so it goes first.
	if res.ImagesDeleted, err = uow.ProcessedImageRepository().DeleteAll(ctx); err != nil {
		return nil, apperror.Storage("delete history", err)
	}
	if res.UsersDeleted, err = uow.UserRepository().DeleteAll(ctx); err != nil {
		return nil, apperror.Storage("delete users", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Storage("commit transaction", err)
	}

	s.logger.Info("HISTORY", "History cleared", map[string]interface{}{
		"images":          res.ImagesDeleted,
		"users":           res.UsersDeleted,
		"upload_files":    res.UploadFilesDeleted,
		"processed_files": res.ProcessedFilesDeleted,
	})

	s.metrics.HistoryCleared()
	s.publisher.PublishHistoryCleared(ctx, res.ImagesDeleted, res.UsersDeleted)
	publishFeed(ctx, s.feed, s.logger, dto.HistoryFeedMessage{Type: dto.FeedTypeCleared})

	return res, nil
}
