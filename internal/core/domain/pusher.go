package domain

import "time"

// KeyLength is the length of a pusher access key. Keys are uppercase hex
// fragments of a UUID, regenerated until unique.
const KeyLength = 8

// Pusher is a shared budgeting workspace. Every financial row in the
// system is scoped, directly or transitively, to exactly one pusher.
type Pusher struct {
	PusherID      string    `json:"pusherID" db:"pusher_id"`
	Name          string    `json:"name" db:"name"`
	Key           string    `json:"key" db:"key"`
	PrimaryUserID string    `json:"primaryUserID" db:"primary_user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// PusherAccess grants a user membership in a pusher. The primary user
// always holds an access row, created alongside the pusher itself.
// Username and PusherName are filled by joins for wire rendering.
type PusherAccess struct {
	PusherID   string    `json:"pusherID" db:"pusher_id"`
	UserID     string    `json:"userID" db:"user_id"`
	Username   string    `json:"username" db:"username"`
	PusherName string    `json:"pusherName" db:"pusher_name"`
	AccessTime time.Time `json:"accessTime" db:"access_time"`
}
