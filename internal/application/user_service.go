package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/metrics"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// Service implements UserService and the profile read paths.
// Cache, Index and Icons are optional.
type Service struct {
	Repo    repo.UserRepository
	Cache   UserCache
	Index   UserIndex
	Icons   IconStore
	Logger  *logrus.Logger
	Metrics metrics.Recorder
}

func NewService(r repo.UserRepository, cache UserCache, index UserIndex, icons IconStore, logger *logrus.Logger, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		Repo:    r,
		Cache:   cache,
		Index:   index,
		Icons:   icons,
		Logger:  logger,
		Metrics: rec,
	}
}

func (s *Service) CreateUser(ctx context.Context, u entity.User) error {
	err := s.Repo.Create(ctx, u)
	s.Metrics.RecordUserOp("create", outcome(err))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID().String()).Error("create user failed")
		return err
	}
	s.indexUser(ctx, u)
	return nil
}

func (s *Service) Update(ctx context.Context, u entity.User) error {
	err := s.Repo.Update(ctx, u)
	if errors.Is(err, repo.ErrNotFound) {
		err = fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}
	s.Metrics.RecordUserOp("update", outcome(err))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID().String()).Error("update user failed")
		return err
	}
	s.evict(ctx, u.ID().String())
	s.indexUser(ctx, u)
	return nil
}

// FindByID parses id and loads the user, reading through the cache.
func (s *Service) FindByID(ctx context.Context, id string) (entity.User, error) {
	uid, err := entity.ParseUserID(id)
	if err != nil {
		return entity.User{}, err
	}

	if s.Cache != nil {
		doc, ok, cErr := s.Cache.Get(ctx, uid.String())
		if cErr != nil {
			s.Logger.WithError(cErr).WithField("user_id", id).Warn("user cache read failed")
		}
		if ok {
			if u, bErr := doc.ToUser(); bErr == nil {
				return u, nil
			}
			s.evict(ctx, id)
		}
	}

	u, err := s.Repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
		}
		s.Logger.WithError(err).WithField("user_id", id).Error("find user failed")
		return entity.User{}, err
	}

	if s.Cache != nil {
		if cErr := s.Cache.Set(ctx, DocumentFromUser(u)); cErr != nil {
			s.Logger.WithError(cErr).WithField("user_id", id).Warn("user cache write failed")
		}
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name     *string
	UserType *int
}

// UpdateProfile applies the provided fields to the stored user.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (entity.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return entity.User{}, err
	}
	if in.Name != nil {
		if u, err = u.WithName(*in.Name); err != nil {
			return entity.User{}, err
		}
	}
	if in.UserType != nil {
		if u, err = u.WithUserType(*in.UserType); err != nil {
			return entity.User{}, err
		}
	}
	if err := s.Update(ctx, u); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

// UploadProfileIcon stores the icon and points the user at it.
func (s *Service) UploadProfileIcon(ctx context.Context, id string, r io.Reader, filename, contentType string) (entity.User, error) {
	if s.Icons == nil {
		return entity.User{}, ErrStorageNotConfigured
	}
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return entity.User{}, err
	}
	objectPath := helpers.ProfileIconPath(u.ID().String(), filename)
	if err := s.Icons.Upload(ctx, objectPath, contentType, r); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("profile icon upload failed")
		return entity.User{}, err
	}
	u = u.WithProfileIconPath(objectPath)
	if err := s.Update(ctx, u); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

// SearchUsers queries the search index. Without an index it returns no results.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]UserDocument, error) {
	if s.Index == nil {
		return []UserDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Search(ctx, q, size)
}

func (s *Service) indexUser(ctx context.Context, u entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, DocumentFromUser(u)); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID().String()).Warn("es index failed")
	}
}

func (s *Service) evict(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("user cache evict failed")
	}
}

var _ UserService = (*Service)(nil)
