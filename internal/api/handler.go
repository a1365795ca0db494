// Package api exposes the projection engine over HTTP.
package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verte-zerg/hifzpace/internal/projection"
)

// Handler serves the projection endpoints. Each request builds its own
// engine, so a Handler is safe for concurrent use.
type Handler struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a Handler. A nil clock means time.Now.
func NewHandler(logger *zap.Logger, now func() time.Time) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Handler{logger: logger, now: now}
}

// Project runs the full day-by-day simulation.
func (h *Handler) Project(c *gin.Context) {
	var req ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	engine := projection.DefaultEngine()
	engine.Now = h.clock(req.Now)
	if req.Features != nil {
		engine.Features = *req.Features
	}
	if req.HorizonDays > 0 {
		engine.HorizonDays = req.HorizonDays
	}
	cal := projection.DefaultCalendar()
	if req.Calendar != nil {
		cal = *req.Calendar
	}
	phases := req.Phases
	if phases == nil && engine.Features.UsePhases {
		phases = projection.DefaultPhases()
	}
	pace := req.Progress.BaseLinesPerDay
	if req.Pace != nil {
		pace = *req.Pace
	}

	result, err := engine.Compute(req.Progress, pace, cal, phases)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Debug("projection computed",
		zap.String("outcome", string(result.Outcome)),
		zap.Int("days_needed", result.DaysNeeded),
		zap.Int("points", len(result.Series)),
	)
	OK(c, result)
}

// Estimate runs the closed-form quick estimate.
func (h *Handler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	engine := projection.DefaultEngine()
	engine.Now = h.clock(req.Now)
	if req.RetentionBufferPercent != nil {
		engine.Features.RetentionBufferPercent = *req.RetentionBufferPercent
	}
	pace := req.Progress.BaseLinesPerDay
	if req.Pace != nil {
		pace = *req.Pace
	}
	result, err := engine.Quick(req.Progress, pace)
	if err != nil {
		h.fail(c, err)
		return
	}
	OK(c, result)
}

// Defaults lists the compiled-in inputs so clients can prefill forms.
func (h *Handler) Defaults(c *gin.Context) {
	OK(c, DefaultsResponse{
		Progress:    projection.DefaultProgress(),
		Features:    projection.DefaultFeatures(),
		Calendar:    projection.DefaultCalendar(),
		Phases:      projection.DefaultPhases(),
		HorizonDays: projection.DefaultHorizonDays,
	})
}

func (h *Handler) clock(override *time.Time) func() time.Time {
	if override != nil {
		at := *override
		return func() time.Time { return at }
	}
	return h.now
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, projection.ErrInvalidProgress),
		errors.Is(err, projection.ErrInvalidPace),
		errors.Is(err, projection.ErrInvalidCalendar):
		BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		h.logger.Error("projection failed", zap.Error(err))
		InternalError(c)
	}
}
