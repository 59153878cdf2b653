package repositories

import (
	"context"

	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// PusherRepository defines persistence operations for pushers and their
// access rows.
type PusherRepository interface {
	// SavePusher persists the pusher and the primary user's access row in
	// a single transaction.
	SavePusher(ctx context.Context, pusher domain.Pusher) error
	FindPusherByKey(ctx context.Context, key string) (*domain.Pusher, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	PusherNameExists(ctx context.Context, primaryUserID, name string) (bool, error)
	ListPushersByPrimaryUser(ctx context.Context, userID string) ([]domain.Pusher, error)
	RenamePusher(ctx context.Context, pusherID, name string) error
	// DeletePusher removes the pusher; scoped rows go with it via
	// storage-level cascades.
	DeletePusher(ctx context.Context, pusherID string) error

	GrantAccess(ctx context.Context, access domain.PusherAccess) error
	RevokeAccess(ctx context.Context, pusherID, userID string) error
	HasAccess(ctx context.Context, userID, pusherID string) (bool, error)
	ListAccessByPusher(ctx context.Context, pusherID string) ([]domain.PusherAccess, error)
	ListAccessByUser(ctx context.Context, userID string) ([]domain.PusherAccess, error)
}
