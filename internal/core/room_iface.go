package core

import (
	"time"

	"github.com/dkeye/Relay/internal/domain"
)

// PublishResult reports delivery stats of one broadcast.
type PublishResult struct {
	SendTo  int
	Dropped []*Session
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       SessionID     `json:"id"`
	UserID   domain.UserID `json:"user_id"`
	Name     string        `json:"name"`
	Addr     string        `json:"addr"`
	JoinedAt time.Time     `json:"joined_at"`
}

type RoomInfo struct {
	Name     domain.RoomName `json:"name"`
	Members  int             `json:"members"`
	Capacity int             `json:"capacity"`
	QueueLen int             `json:"queue_len"`
	QueueCap int             `json:"queue_cap"`
}

// RoomService is what outer surfaces (admin API, WebSocket endpoint) may
// do with the running room.
type RoomService interface {
	Info() RoomInfo
	Members() []MemberDTO
	Kick(name string) bool
	Closing() bool
	Accept(conn FrameConn)
}
