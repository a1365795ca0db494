package api

import (
	"time"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// ProjectionRequest is the body of POST /api/v1/projections. Omitted
// features and calendar fall back to the compiled-in defaults; omitted pace
// uses the learner's base pace.
type ProjectionRequest struct {
	Progress    model.StudentProgress `json:"progress"`
	Pace        *float64              `json:"pace,omitempty"`
	Features    *model.Features       `json:"features,omitempty"`
	Calendar    *model.Calendar       `json:"calendar,omitempty"`
	Phases      []model.VelocityPhase `json:"phases,omitempty"`
	Now         *time.Time            `json:"now,omitempty"`
	HorizonDays int                   `json:"horizon_days,omitempty"`
}

// EstimateRequest is the body of POST /api/v1/estimates.
type EstimateRequest struct {
	Progress               model.StudentProgress `json:"progress"`
	Pace                   *float64              `json:"pace,omitempty"`
	RetentionBufferPercent *float64              `json:"retention_buffer_percent,omitempty"`
	Now                    *time.Time            `json:"now,omitempty"`
}

// DefaultsResponse lists the compiled-in inputs.
type DefaultsResponse struct {
	Progress    model.StudentProgress `json:"progress"`
	Features    model.Features        `json:"features"`
	Calendar    model.Calendar        `json:"calendar"`
	Phases      []model.VelocityPhase `json:"phases"`
	HorizonDays int                   `json:"horizon_days"`
}
