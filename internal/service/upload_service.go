package service

import (
	"context"
	"fmt"
	"io"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/config"
	"image-processing-be/internal/dto"
	"image-processing-be/internal/metrics"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/contract"
	"image-processing-be/pkg/filestore"
	"image-processing-be/pkg/store"

	"github.com/google/uuid"
)

type IUploadService interface {
	HandleUpload(ctx context.Context, session *store.Session, file *dto.UploadFile) (*dto.UploadResponse, error)
}

type uploadService struct {
	cfg      config.StorageConfig
	uploads  filestore.Store
	sessions contract.SessionRepository
	metrics  *metrics.Metrics
	logger   logger.ILogger
	newToken func() string
}

func NewUploadService(
	cfg config.StorageConfig,
	uploads filestore.Store,
	sessions contract.SessionRepository,
	metrics *metrics.Metrics,
	logger logger.ILogger,
) IUploadService {
	return &uploadService{
		cfg:      cfg,
		uploads:  uploads,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		newToken: uploadToken,
	}
}

// uploadToken is 8 lowercase hex characters of random data.
func uploadToken() string {
	return uuid.NewString()[:8]
}

func (s *uploadService) HandleUpload(ctx context.Context, session *store.Session, file *dto.UploadFile) (res *dto.UploadResponse, err error) {
	if !session.Authenticated() {
		return nil, apperror.ErrNotAuthenticated
	}

	defer func() {
		switch {
		case err == nil:
			s.metrics.ObserveUpload(metrics.OutcomeSuccess, res.Size)
		case apperror.KindOf(err) == apperror.KindValidation:
			s.metrics.ObserveUpload(metrics.OutcomeRejected, 0)
		default:
			s.metrics.ObserveUpload(metrics.OutcomeFailed, 0)
		}
	}()

	if file == nil || file.Filename == "" || file.Content == nil {
		return nil, apperror.ErrNoFileSelected
	}
	if !s.cfg.IsAllowedExtension(file.Filename) {
		return nil, apperror.ErrUnsupportedFormat
	}
	if file.Size > s.cfg.MaxUploadBytes {
		return nil, apperror.ErrPayloadTooLarge
	}

	safeName := filestore.SecureFilename(file.Filename)
	if safeName == "" {
		return nil, apperror.ErrNoFileSelected
	}
	if !s.cfg.IsAllowedExtension(safeName) {
		return nil, apperror.ErrUnsupportedFormat
	}

	// The declared size can lie; never buffer more than the limit allows.
	data, err := io.ReadAll(io.LimitReader(file.Content, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, apperror.Storage("read upload", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, apperror.ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return nil, apperror.ErrNoFileSelected
	}

	composed := fmt.Sprintf("%s_%s", s.newToken(), safeName)
	if err := s.uploads.Put(ctx, composed, data); err != nil {
		return nil, apperror.Storage("save upload", err)
	}

	next := session.Clone()
	next.CurrentUpload = composed
	next.CurrentProcessed = ""
	if err := s.sessions.Save(ctx, next); err != nil {
		return nil, apperror.Storage("save session", err)
	}
	*session = *next

	s.logger.Info("UPLOAD", "File saved", map[string]interface{}{
		"user_id":  session.UserID,
		"filename": composed,
		"size":     len(data),
	})

	return &dto.UploadResponse{
		Filename: composed,
		Size:     int64(len(data)),
		URL:      dto.UploadedFileURL(composed),
	}, nil
}
