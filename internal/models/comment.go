// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is owned by its content item and is removed with it. Deletion
// through the API follows the configured policy: soft (deleted_at set,
// the default) or hard (row removed).
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	ContentID uuid.UUID  `json:"content_id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`

	// AuthorName is joined in by list queries for display.
	AuthorName string `json:"author_name,omitempty"`
}
