package dto

import (
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// CreatePusherRequest defines the payload for creating a pusher.
type CreatePusherRequest struct {
	Name string `json:"name" binding:"required,max=30"`
}

// RenamePusherRequest defines the PUT /pusher/ payload. The key selects
// the pusher; only the name is mutable.
type RenamePusherRequest struct {
	Key  string `json:"key" binding:"required"`
	Name string `json:"name" binding:"required,max=30"`
}

// PusherResponse renders a pusher with its primary user resolved to a
// username.
type PusherResponse struct {
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	PrimaryUser string    `json:"primaryUser"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToPusherResponse converts a domain.Pusher to its wire form.
func ToPusherResponse(p *domain.Pusher, primaryUsername string) PusherResponse {
	return PusherResponse{
		Name:        p.Name,
		Key:         p.Key,
		PrimaryUser: primaryUsername,
		CreatedAt:   p.CreatedAt,
	}
}

// ListPushersResponse wraps the pushers a user owns.
type ListPushersResponse struct {
	Pushers []PusherResponse `json:"pushers"`
}

// GrantAccessRequest defines the payload for sharing a pusher.
type GrantAccessRequest struct {
	Username  string `json:"username" binding:"required"`
	PusherKey string `json:"pusher_key" binding:"required"`
}

// PusherAccessResponse renders an access row with both foreign keys
// resolved to display names.
type PusherAccessResponse struct {
	User       string    `json:"user"`
	Pusher     string    `json:"pusher"`
	AccessTime time.Time `json:"access_time"`
}

// ToPusherAccessResponse converts a domain.PusherAccess to its wire form.
func ToPusherAccessResponse(a *domain.PusherAccess) PusherAccessResponse {
	return PusherAccessResponse{
		User:       a.Username,
		Pusher:     a.PusherName,
		AccessTime: a.AccessTime,
	}
}

// ToListPusherAccessResponse converts a slice of access rows.
func ToListPusherAccessResponse(rows []domain.PusherAccess) []PusherAccessResponse {
	list := make([]PusherAccessResponse, len(rows))
	for i, a := range rows {
		list[i] = ToPusherAccessResponse(&a)
	}
	return list
}
