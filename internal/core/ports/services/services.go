package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// UserSvcFacade exposes user identity operations. Admin-gated operations
// take the requesting user's id and enforce the gate internally.
type UserSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
	ListUsers(ctx context.Context, requestingUserID string) ([]domain.User, error)
	DeleteUser(ctx context.Context, requestingUserID, username string) error
}

// TokenSvcFacade issues signed access tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// PusherSvcFacade exposes workspace and membership operations. Authorize
// is the gate every scoped endpoint passes through first.
type PusherSvcFacade interface {
	CreatePusher(ctx context.Context, creatorUserID, name string) (*domain.Pusher, error)
	// Authorize resolves the key and verifies membership. It returns
	// apperrors.ErrNotFound for an unknown key and
	// apperrors.ErrUnauthorized for a non-member.
	Authorize(ctx context.Context, pusherKey, userID string) (*domain.Pusher, error)
	ListUserPushers(ctx context.Context, userID string) ([]domain.Pusher, error)
	RenamePusher(ctx context.Context, pusherKey, userID, newName string) (*domain.Pusher, error)
	DeletePusher(ctx context.Context, pusherKey, userID string) error

	GrantAccess(ctx context.Context, requestingUserID, username, pusherKey string) (*domain.PusherAccess, error)
	ListPusherAccess(ctx context.Context, requestingUserID, pusherKey string) ([]domain.PusherAccess, error)
	ListUserAccess(ctx context.Context, userID, pusherKey string) ([]domain.PusherAccess, error)
	RevokeAccess(ctx context.Context, requestingUserID, username, pusherKey string) error
}

// EncapsulationSvcFacade exposes budget/fund/account operations behind
// the kind registry.
type EncapsulationSvcFacade interface {
	Create(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, data json.RawMessage) (any, error)
	List(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind) (any, error)
	Replace(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, data json.RawMessage) (any, error)
	Delete(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string) error

	CreateValue(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, req dto.CreateEncapsulationValueRequest) (*dto.EncapsulationValueResponse, error)
	ListValues(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, params dto.PageParams) (*dto.PagedResponse, error)
	DeleteValue(ctx context.Context, pusher *domain.Pusher, kind domain.EncapsulationKind, name string, ts time.Time) error
}

// EntitySvcFacade exposes financial entity operations behind the kind
// registry. Replace is restricted to elective kinds.
type EntitySvcFacade interface {
	Create(ctx context.Context, pusher *domain.Pusher, userID string, kind domain.EntityKind, data json.RawMessage) (any, error)
	List(ctx context.Context, pusher *domain.Pusher, kind domain.EntityKind, params dto.PageParams) (*dto.PagedResponse, error)
	Replace(ctx context.Context, pusher *domain.Pusher, userID string, kind domain.EntityKind, data json.RawMessage) (any, error)
	Delete(ctx context.Context, pusher *domain.Pusher, kind domain.EntityKind, query dto.EntityQuery) error
}

// NetWorthSvcFacade reads the append-only net-worth history.
type NetWorthSvcFacade interface {
	History(ctx context.Context, pusher *domain.Pusher, params dto.PageParams) (*dto.PagedResponse, error)
}

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	User          UserSvcFacade
	Token         TokenSvcFacade
	Pusher        PusherSvcFacade
	Encapsulation EncapsulationSvcFacade
	Entity        EntitySvcFacade
	NetWorth      NetWorthSvcFacade
}
