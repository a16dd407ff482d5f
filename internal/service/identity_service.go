package service

import (
	"context"
	"errors"
	"strings"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/dto"
	"image-processing-be/internal/entity"
	"image-processing-be/internal/events"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/contract"
	"image-processing-be/internal/repository/specification"
	"image-processing-be/internal/repository/unitofwork"
	"image-processing-be/pkg/store"

	"gorm.io/gorm"
)

type IIdentityService interface {
	// ResolveUser returns the user with the given name, creating it on first use.
	ResolveUser(ctx context.Context, name string) (*entity.User, error)
	SetIdentity(ctx context.Context, session *store.Session, name string) (*dto.SessionResponse, error)
	Describe(session *store.Session) *dto.SessionResponse
	Logout(ctx context.Context, sessionID string) error
}

type identityService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   contract.SessionRepository
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewIdentityService(
	uowFactory unitofwork.RepositoryFactory,
	sessions contract.SessionRepository,
	publisher events.Publisher,
	logger logger.ILogger,
) IIdentityService {
	return &identityService{
		uowFactory: uowFactory,
		sessions:   sessions,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *identityService) ResolveUser(ctx context.Context, name string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ErrBlankName
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return nil, apperror.Storage("find user", err)
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{Name: name}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Storage("create user", err)
		}

		// Lost a race with a concurrent first request for the same name.
		existing, findErr := uow.UserRepository().FindOne(ctx, specification.ByName{Name: name})
		if findErr != nil {
			return nil, apperror.Storage("find user", findErr)
		}
		if existing == nil {
			return nil, apperror.Storage("create user", err)
		}
		return existing, nil
	}

	s.logger.Info("IDENTITY", "User created", map[string]interface{}{"user_id": user.Id, "username": user.Name})
	s.publisher.PublishUserCreated(ctx, user)
	return user, nil
}

func (s *identityService) SetIdentity(ctx context.Context, session *store.Session, name string) (*dto.SessionResponse, error) {
	user, err := s.ResolveUser(ctx, name)
	if err != nil {
		return nil, err
	}

	next := session.Clone()
	if next.UserName != user.Name {
		next.CurrentUpload = ""
		next.CurrentProcessed = ""
	}
	next.UserName = user.Name
	next.UserID = user.Id

	if err := s.sessions.Save(ctx, next); err != nil {
		return nil, apperror.Storage("save session", err)
	}
	*session = *next

	return s.Describe(session), nil
}

func (s *identityService) Describe(session *store.Session) *dto.SessionResponse {
	if !session.Authenticated() {
		return &dto.SessionResponse{}
	}

	res := &dto.SessionResponse{
		Authenticated:            true,
		Username:                 session.UserName,
		UserId:                   session.UserID,
		CurrentUploadedFilename:  session.CurrentUpload,
		CurrentProcessedFilename: session.CurrentProcessed,
	}
	if session.CurrentUpload != "" {
		res.UploadedURL = dto.UploadedFileURL(session.CurrentUpload)
	}
	if session.CurrentProcessed != "" {
		res.ProcessedURL = dto.ProcessedFileURL(session.CurrentProcessed)
	}
	return res
}

func (s *identityService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperror.Storage("delete session", err)
	}
	return nil
}
