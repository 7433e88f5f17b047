// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentState is the derived lifecycle state of a content item. It is
// never stored: it is a pure function of publish_at, deleted_at and the
// current time.
type ContentState string

const (
	StateDraft       ContentState = "draft"
	StateScheduled   ContentState = "scheduled"
	StatePublished   ContentState = "published"
	StateSoftDeleted ContentState = "soft_deleted"
)

// Content represents a publishable unit of user-authored material.
// CategoryID is a weak reference: deleting the category clears it.
type Content struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	AuthorID   uuid.UUID  `json:"author_id"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	PublishAt  *time.Time `json:"publish_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// State derives the lifecycle state at the given instant.
// A set deleted_at wins over everything else; soft-deleted is terminal.
func (c *Content) State(now time.Time) ContentState {
	switch {
	case c.DeletedAt != nil:
		return StateSoftDeleted
	case c.PublishAt == nil:
		return StateDraft
	case c.PublishAt.After(now):
		return StateScheduled
	default:
		return StatePublished
	}
}

// IsDeleted returns true if the content has been soft-deleted.
func (c *Content) IsDeleted() bool {
	return c.DeletedAt != nil
}

// IsPublished returns true if the content is visible to the public at the
// given instant: not deleted, and publish_at set and not in the future.
func (c *Content) IsPublished(now time.Time) bool {
	return c.State(now) == StatePublished
}
