package domain

import "time"

// Member represents user's participation meta for the room.
// No transport or lifecycle logic here.
type Member struct {
	User     *User
	Addr     string
	JoinedAt time.Time
}

func NewMember(user *User, addr string) *Member {
	return &Member{User: user, Addr: addr, JoinedAt: time.Now()}
}
