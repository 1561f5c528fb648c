// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"

	"github.com/danielhkuo/connecthub/models"
)

// Event topic constants
const (
	TopicAttendeeSubmitted = "attendee.submitted"
	TopicGroupsGenerated   = "groups.generated"
)

type AttendeeSubmitted struct {
	Attendee models.Attendee `json:"attendee"`
}

type GroupsGenerated struct {
	Query     string         `json:"query"`
	Attendees int            `json:"attendees"`
	Groups    []models.Group `json:"groups"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
