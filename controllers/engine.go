package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"outfitengine/assembly"
	"outfitengine/engine"
	"outfitengine/models"
	"outfitengine/wardrobe"
)

// EngineController exposes generate/replace/explain/record_feedback over
// HTTP, sitting in front of engine.Engine.
type EngineController struct {
	Engine   *engine.Engine
	Feedback engine.FeedbackStore
}

func (controller *EngineController) Routes(g *echo.Group) {
	g.POST("/generate", controller.Generate)
	g.POST("/replace", controller.Replace)
	g.POST("/explain", controller.Explain)
	g.POST("/feedback", controller.RecordFeedback)
}

type GenerateIn struct {
	Occasion         string   `json:"occasion" validate:"required"`
	TargetDressiness int      `json:"target_dressiness"`
	TemperatureBand  string   `json:"temperature_band" validate:"required"`
	EventTags        []string `json:"event_tags"`
	AllowCatalog     bool     `json:"allow_catalog"`
	DeadlineMs       int      `json:"deadline_ms"`
}

type ReplaceIn struct {
	BundleID        *string `json:"bundle_id"`
	Slot            string  `json:"slot" validate:"required"`
	Occasion        string  `json:"occasion" validate:"required"`
	TemperatureBand string  `json:"temperature_band" validate:"required"`
	AllowCatalog    bool    `json:"allow_catalog"`
	DeadlineMs      int     `json:"deadline_ms"`
}

type ExplainIn struct {
	Bundle assembly.Bundle `json:"bundle" validate:"required"`
}

type FeedbackIn struct {
	BundleID       string   `json:"bundle_id" validate:"required"`
	FeedbackType   string   `json:"feedback_type" validate:"required"`
	Reasons        []string `json:"reasons"`
	Rating         *int     `json:"rating"`
	IdempotencyKey string   `json:"idempotency_key" validate:"required"`
}

func currentUserID(c echo.Context) string {
	u, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return ""
	}
	return uintToStr(u.ID)
}

func uintToStr(id uint) string {
	if id == 0 {
		return ""
	}
	digits := []byte{}
	for id > 0 {
		digits = append([]byte{byte('0' + id%10)}, digits...)
		id /= 10
	}
	return string(digits)
}

func (controller *EngineController) Generate(c echo.Context) error {
	var req GenerateIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	traceID := uuid.NewString()
	occCtx := wardrobe.Context{
		Occasion:         req.Occasion,
		TargetDressiness: req.TargetDressiness,
		TemperatureBand:  wardrobe.Seasonality(req.TemperatureBand),
		EventTags:        req.EventTags,
		AllowCatalog:     req.AllowCatalog,
	}
	deadline := time.Duration(req.DeadlineMs) * time.Millisecond

	res := controller.Engine.Generate(c.Request().Context(), currentUserID(c), occCtx, req.AllowCatalog, deadline, traceID)
	if res.Err != nil {
		return respondEngineError(c, res.Err, res.Bundle.Partial)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bundle":       res.Bundle,
		"alternatives": res.Alternatives,
		"trace_id":     traceID,
	})
}

func (controller *EngineController) Replace(c echo.Context) error {
	var req ReplaceIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.BundleID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bundle_id is required"})
	}

	traceID := uuid.NewString()
	occCtx := wardrobe.Context{
		Occasion:        req.Occasion,
		TemperatureBand: wardrobe.Seasonality(req.TemperatureBand),
		AllowCatalog:    req.AllowCatalog,
	}
	deadline := time.Duration(req.DeadlineMs) * time.Millisecond

	res := controller.Engine.Replace(c.Request().Context(), currentUserID(c), *req.BundleID, nil, wardrobe.Slot(req.Slot), occCtx, req.AllowCatalog, deadline, traceID)
	if res.Err != nil {
		return respondEngineError(c, res.Err, false)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"alternatives": res.Alternatives,
		"trace_id":     traceID,
	})
}

func (controller *EngineController) Explain(c echo.Context) error {
	var req ExplainIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res := controller.Engine.Explain(req.Bundle)
	return c.JSON(http.StatusOK, echo.Map{
		"per_slot":      res.PerSlot,
		"per_component": res.PerComponent,
	})
}

func (controller *EngineController) RecordFeedback(c echo.Context) error {
	var req FeedbackIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	traceID := uuid.NewString()
	res := controller.Engine.RecordFeedback(
		c.Request().Context(), controller.Feedback, currentUserID(c), req.BundleID,
		engine.FeedbackType(req.FeedbackType), req.Reasons, req.Rating, req.IdempotencyKey, traceID,
	)
	if res.Err != nil {
		return respondEngineError(c, res.Err, false)
	}
	return c.JSON(http.StatusOK, echo.Map{"feedback": res.Feedback})
}

// respondEngineError maps engine.Error kinds to HTTP status codes.
func respondEngineError(c echo.Context, err *engine.Error, partial bool) error {
	body := echo.Map{
		"error":           err.Message,
		"kind":            err.Kind,
		"ruleset_version": err.RulesetVersion,
		"trace_id":        err.TraceID,
	}
	if err.DominantViolation != "" {
		body["dominant_violation"] = err.DominantViolation
		body["prune_slot"] = err.PruneSlot
	}

	switch err.Kind {
	case engine.KindInvalidInput:
		return c.JSON(http.StatusBadRequest, body)
	case engine.KindNoTemplate, engine.KindNoBundle:
		return c.JSON(http.StatusUnprocessableEntity, body)
	case engine.KindDeadline:
		if partial {
			body["partial"] = true
			return c.JSON(http.StatusOK, body)
		}
		return c.JSON(http.StatusGatewayTimeout, body)
	case engine.KindIndexError:
		return c.JSON(http.StatusBadGateway, body)
	case engine.KindBusy:
		return c.JSON(http.StatusTooManyRequests, body)
	default:
		return c.JSON(http.StatusInternalServerError, body)
	}
}
