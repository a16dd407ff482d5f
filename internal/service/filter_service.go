package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/dto"
	"image-processing-be/internal/entity"
	"image-processing-be/internal/events"
	"image-processing-be/internal/metrics"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/contract"
	"image-processing-be/internal/repository/unitofwork"
	"image-processing-be/pkg/filestore"
	"image-processing-be/pkg/imagefilter"
	"image-processing-be/pkg/store"
)

const DefaultFilter = imagefilter.Grayscale

type IFilterService interface {
	ApplyFilter(ctx context.Context, session *store.Session, filter string) (*dto.ProcessImageResponse, error)
	ListFilters() []dto.FilterResponse
}

type FilterOptions struct {
	// Strict rejects unknown filter names instead of passing the image through.
	Strict      bool
	JPEGQuality int
}

type filterService struct {
	uowFactory unitofwork.RepositoryFactory
	identity   IIdentityService
	uploads    filestore.Store
	processed  filestore.Store
	sessions   contract.SessionRepository
	publisher  events.Publisher
	feed       IPublisherService
	metrics    *metrics.Metrics
	logger     logger.ILogger
	opts       FilterOptions
	now        func() time.Time
}

func NewFilterService(
	uowFactory unitofwork.RepositoryFactory,
	identity IIdentityService,
	uploads filestore.Store,
	processed filestore.Store,
	sessions contract.SessionRepository,
	publisher events.Publisher,
	feed IPublisherService,
	metrics *metrics.Metrics,
	logger logger.ILogger,
	opts FilterOptions,
) IFilterService {
	return &filterService{
		uowFactory: uowFactory,
		identity:   identity,
		uploads:    uploads,
		processed:  processed,
		sessions:   sessions,
		publisher:  publisher,
		feed:       feed,
		metrics:    metrics,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

func (s *filterService) ListFilters() []dto.FilterResponse {
	kinds := imagefilter.All()
	res := make([]dto.FilterResponse, 0, len(kinds))
	for _, k := range kinds {
		res = append(res, dto.FilterResponse{Name: k.String(), Description: k.Description()})
	}
	return res
}

// kindLabel is the filter component of the output name. Unknown names are
// sanitized so they cannot smuggle separators into the file name.
func kindLabel(kind imagefilter.Kind, known bool) string {
	if known {
		return kind.String()
	}
	if label := filestore.SecureFilename(kind.String()); label != "" {
		return label
	}
	return "none"
}

// metricLabel keeps the filter label set bounded to the known kinds.
func metricLabel(kind imagefilter.Kind, known bool) string {
	if known {
		return kind.String()
	}
	return "unknown"
}

func (s *filterService) ApplyFilter(ctx context.Context, session *store.Session, filter string) (res *dto.ProcessImageResponse, err error) {
	if !session.Authenticated() {
		return nil, apperror.ErrNotAuthenticated
	}
	if session.CurrentUpload == "" {
		return nil, apperror.ErrNoImageUploaded
	}

	if strings.TrimSpace(filter) == "" {
		filter = DefaultFilter.String()
	}
	if utf8.RuneCountInString(filter) > imagefilter.MaxNameLength {
		return nil, apperror.ErrFilterNameTooLong
	}
	kind, known := imagefilter.ParseKind(filter)
	if !known && s.opts.Strict {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownFilter, filter)
	}
	label := kindLabel(kind, known)

	start := s.now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		s.metrics.ObserveFilter(metricLabel(kind, known), outcome, s.now().Sub(start))
	}()

	source := session.CurrentUpload
	data, err := s.uploads.Get(ctx, source)
	if err != nil {
		if errors.Is(err, filestore.ErrNotExist) {
			return nil, apperror.ErrSourceMissing
		}
		return nil, apperror.Storage("read upload", err)
	}

	img, err := imagefilter.Decode(data)
	if err != nil {
		return nil, apperror.Processing("decode "+source, err)
	}
	bounds := img.Bounds()
	s.logger.Info("FILTER", "Processing image", map[string]interface{}{
		"filename": source,
		"width":    bounds.Dx(),
		"height":   bounds.Dy(),
		"filter":   filter,
	})

	out, applied := imagefilter.Apply(img, kind)
	if !applied {
		s.logger.Warn("FILTER", "Unknown filter, image passed through unchanged", map[string]interface{}{"filter": filter})
	}

	encoded, err := imagefilter.Encode(out, imagefilter.FormatFor(source), s.opts.JPEGQuality)
	if err != nil {
		return nil, apperror.Processing("encode "+source, err)
	}

	processedName := fmt.Sprintf("processed_%s_%d_%s", label, s.now().UnixMilli(), source)
	if err := s.processed.Put(ctx, processedName, encoded); err != nil {
		return nil, apperror.Storage("save processed image", err)
	}

	// The history may have been cleared since the identity was set; resolving
	// again keeps the record pointing at an existing user.
	user, err := s.identity.ResolveUser(ctx, session.UserName)
	if err != nil {
		return nil, err
	}

	record := &entity.ProcessedImage{
		UserId:            user.Id,
		UserName:          user.Name,
		OriginalFilename:  source,
		ProcessedFilename: processedName,
		FilterKind:        filter,
	}

	// The row only commits once the session points at the new file.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Storage("begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.ProcessedImageRepository().Create(ctx, record); err != nil {
		return nil, apperror.Storage("record history", err)
	}

	next := session.Clone()
	next.UserID = user.Id
	next.CurrentProcessed = processedName
	if err := s.sessions.Save(ctx, next); err != nil {
		return nil, apperror.Storage("save session", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Storage("commit transaction", err)
	}
	*session = *next

	s.logger.Info("FILTER", "Filter applied", map[string]interface{}{
		"filter":    filter,
		"processed": processedName,
		"record_id": record.Id,
	})

	s.publisher.PublishImageProcessed(ctx, record)
	item := toHistoryItem(record)
	publishFeed(ctx, s.feed, s.logger, dto.HistoryFeedMessage{Type: dto.FeedTypeCreated, Item: item})

	return &dto.ProcessImageResponse{
		Id:                record.Id,
		OriginalFilename:  source,
		ProcessedFilename: processedName,
		FilterType:        filter,
		Applied:           applied,
		Width:             out.Bounds().Dx(),
		Height:            out.Bounds().Dy(),
		URL:               dto.ProcessedFileURL(processedName),
		CreatedAt:         record.CreatedAt,
	}, nil
}
