package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pennypusher/pennypusher/internal/apperrors"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portsrepo "github.com/pennypusher/pennypusher/internal/core/ports/repositories"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/utils"
)

type pusherService struct {
	BaseService
	pusherRepo portsrepo.PusherRepository
	userRepo   portsrepo.UserRepository
}

// NewPusherService creates the pusher service facade.
func NewPusherService(pusherRepo portsrepo.PusherRepository, userRepo portsrepo.UserRepository) portssvc.PusherSvcFacade {
	return &pusherService{pusherRepo: pusherRepo, userRepo: userRepo}
}

var _ portssvc.PusherSvcFacade = (*pusherService)(nil)

func (s *pusherService) CreatePusher(ctx context.Context, creatorUserID, name string) (*domain.Pusher, error) {
	taken, err := s.pusherRepo.PusherNameExists(ctx, creatorUserID, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError("You already have a pusher named [" + name + "].")
	}

	key, err := utils.GeneratePusherKey(ctx, s.pusherRepo.KeyExists)
	if err != nil {
		return nil, err
	}

	pusher := domain.Pusher{
		PusherID:      uuid.NewString(),
		Name:          name,
		Key:           key,
		PrimaryUserID: creatorUserID,
		CreatedAt:     time.Now(),
	}
	if err := s.pusherRepo.SavePusher(ctx, pusher); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "pusher created", slog.String("pusher_key", key))
	return &pusher, nil
}

// Authorize resolves a key and verifies the caller belongs to the pusher.
// Every scoped operation funnels through here before touching data.
func (s *pusherService) Authorize(ctx context.Context, pusherKey, userID string) (*domain.Pusher, error) {
	pusher, err := s.pusherRepo.FindPusherByKey(ctx, pusherKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("The pusher [" + pusherKey + "] does not exist.")
		}
		return nil, err
	}
	member, err := s.pusherRepo.HasAccess(ctx, userID, pusher.PusherID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.NewUnauthorizedError("You do not have access to this pusher.")
	}
	return pusher, nil
}

func (s *pusherService) ListUserPushers(ctx context.Context, userID string) ([]domain.Pusher, error) {
	return s.pusherRepo.ListPushersByPrimaryUser(ctx, userID)
}

func (s *pusherService) RenamePusher(ctx context.Context, pusherKey, userID, newName string) (*domain.Pusher, error) {
	pusher, err := s.Authorize(ctx, pusherKey, userID)
	if err != nil {
		return nil, err
	}
	if pusher.PrimaryUserID != userID {
		return nil, apperrors.NewUnauthorizedError("Only the primary user can rename a pusher.")
	}

	taken, err := s.pusherRepo.PusherNameExists(ctx, pusher.PrimaryUserID, newName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError("You already have a pusher named [" + newName + "].")
	}

	if err := s.pusherRepo.RenamePusher(ctx, pusher.PusherID, newName); err != nil {
		return nil, err
	}
	pusher.Name = newName
	return pusher, nil
}

func (s *pusherService) DeletePusher(ctx context.Context, pusherKey, userID string) error {
	pusher, err := s.Authorize(ctx, pusherKey, userID)
	if err != nil {
		return err
	}
	if pusher.PrimaryUserID != userID {
		return apperrors.NewUnauthorizedError("Only the primary user can delete a pusher.")
	}
	if err := s.pusherRepo.DeletePusher(ctx, pusher.PusherID); err != nil {
		return err
	}
	s.LogInfo(ctx, "pusher deleted", slog.String("pusher_key", pusherKey))
	return nil
}

func (s *pusherService) GrantAccess(ctx context.Context, requestingUserID, username, pusherKey string) (*domain.PusherAccess, error) {
	pusher, err := s.Authorize(ctx, pusherKey, requestingUserID)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("The user [" + username + "] does not exist.")
		}
		return nil, err
	}

	access := domain.PusherAccess{
		PusherID:   pusher.PusherID,
		UserID:     target.UserID,
		Username:   target.Username,
		PusherName: pusher.Name,
		AccessTime: time.Now(),
	}
	// The (pusher, user) unique index catches duplicate grants.
	if err := s.pusherRepo.GrantAccess(ctx, access); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "pusher access granted",
		slog.String("pusher_key", pusherKey),
		slog.String("username", username))
	return &access, nil
}

// ListPusherAccess returns every member of a pusher. Only the primary
// user may see the full roster.
func (s *pusherService) ListPusherAccess(ctx context.Context, requestingUserID, pusherKey string) ([]domain.PusherAccess, error) {
	pusher, err := s.Authorize(ctx, pusherKey, requestingUserID)
	if err != nil {
		return nil, err
	}
	if pusher.PrimaryUserID != requestingUserID {
		return nil, apperrors.NewUnauthorizedError("Only the primary user can list pusher access.")
	}
	return s.pusherRepo.ListAccessByPusher(ctx, pusher.PusherID)
}

// ListUserAccess returns the caller's own access rows, optionally scoped
// to one pusher key.
func (s *pusherService) ListUserAccess(ctx context.Context, userID, pusherKey string) ([]domain.PusherAccess, error) {
	if pusherKey != "" {
		pusher, err := s.Authorize(ctx, pusherKey, userID)
		if err != nil {
			return nil, err
		}
		rows, err := s.pusherRepo.ListAccessByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		scoped := make([]domain.PusherAccess, 0, 1)
		for _, row := range rows {
			if row.PusherID == pusher.PusherID {
				scoped = append(scoped, row)
			}
		}
		return scoped, nil
	}
	return s.pusherRepo.ListAccessByUser(ctx, userID)
}

func (s *pusherService) RevokeAccess(ctx context.Context, requestingUserID, username, pusherKey string) error {
	pusher, err := s.Authorize(ctx, pusherKey, requestingUserID)
	if err != nil {
		return err
	}

	target, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("The user [" + username + "] does not exist.")
		}
		return err
	}

	// The primary user keeps access for the life of the pusher.
	if target.UserID == pusher.PrimaryUserID {
		return apperrors.NewUnauthorizedError("The primary user's access cannot be revoked.")
	}
	// Members may leave on their own; removing anyone else is the
	// primary user's call.
	if requestingUserID != pusher.PrimaryUserID && requestingUserID != target.UserID {
		return apperrors.NewUnauthorizedError("Only the primary user can revoke another member's access.")
	}

	if err := s.pusherRepo.RevokeAccess(ctx, pusher.PusherID, target.UserID); err != nil {
		return err
	}
	s.LogInfo(ctx, "pusher access revoked",
		slog.String("pusher_key", pusherKey),
		slog.String("username", username))
	return nil
}
