package app

import "github.com/dkeye/Relay/internal/core"

type FailureAction int

const (
	// NoAction leaves cleanup to the session's own worker.
	NoAction FailureAction = iota
	KickMember
)

// Policy decides what happens to a session the dispatcher failed to reach.
type Policy interface {
	OnSendFailure(member *core.Session, err error) FailureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnSendFailure(member *core.Session, err error) FailureAction {
	return KickMember
}
