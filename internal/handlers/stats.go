// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"blogpulse/internal/analytics"
	"blogpulse/internal/errs"
)

// Stats serves the admin aggregation endpoint.
type Stats struct {
	engine *analytics.Engine
}

// NewStats creates a new Stats handler group.
func NewStats(engine *analytics.Engine) *Stats {
	return &Stats{engine: engine}
}

// Aggregate returns platform totals, category rollups, trend series at the
// requested granularity, and the top content ranking. A content_id query
// parameter switches to the single-item projection.
func (h *Stats) Aggregate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	granularity, err := analytics.ParseGranularity(q.Get("range"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	query := analytics.Query{Granularity: granularity}
	if raw := q.Get("content_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondErr(w, r, errs.Wrap(errs.KindValidation, "invalid content_id", err))
			return
		}
		query.ContentID = &id
	}

	report, err := h.engine.Aggregate(r.Context(), query)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, report)
}
