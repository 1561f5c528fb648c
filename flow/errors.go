// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import "errors"

var (
	// ErrInvalidCredentials is returned when a login does not match the
	// configured admin account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts is returned when a client exceeds the login rate.
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrNotAuthenticated is returned for dashboard actions on a logged-out session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrWrongState is returned when an action is not reachable from the
	// session's current state, e.g. the public form while logged in.
	ErrWrongState = errors.New("action not available in current state")
)

// ValidationError reports missing input. It never changes state.
type ValidationError struct {
	Message string
	// Warning marks conditions that are not the user's mistake, such as an
	// empty attendee table.
	Warning bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError carries the grouping client's error text verbatim.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// NoticeFor maps an operation error to the inline message shown to the user.
// Storage errors and other unexpected errors have no inline notice.
func NoticeFor(err error) (Notice, bool) {
	var ve *ValidationError
	var re *RemoteError
	switch {
	case err == nil:
		return Notice{}, false
	case errors.As(err, &ve):
		if ve.Warning {
			return Warning(ve.Message), true
		}
		return Error(ve.Message), true
	case errors.As(err, &re):
		return Error(re.Message), true
	case errors.Is(err, ErrInvalidCredentials):
		return Error(MsgInvalidCredentials), true
	case errors.Is(err, ErrTooManyAttempts):
		return Error(MsgTooManyAttempts), true
	default:
		return Notice{}, false
	}
}
