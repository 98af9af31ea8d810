package settings

import (
	"fmt"

	"reg-manager/core/logger"
	"reg-manager/core/patch"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the settings document.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the settings routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/settings")
	group.Get("/", h.HandleGet)
	group.Patch("/", h.HandlePatch)
	group.Get("/changes", h.HandleChanges)
	group.Post("/drift", h.HandleDriftCheck)
}

func parseSource(s string) (patch.Source, error) {
	switch patch.Source(s) {
	case "":
		return patch.SourceLocal, nil
	case patch.SourceLocal, patch.SourceRemote, patch.SourceImport:
		return patch.Source(s), nil
	default:
		return "", fmt.Errorf("unknown change source %q", s)
	}
}

// HandleGet returns the current settings document.
// @Summary Get Settings
// @Description Returns the current settings document as a flat field map.
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Settings document"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /settings [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	doc, err := h.service.Document(c.Context())
	if err != nil {
		l.Error("Settings lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(doc)
}

// HandlePatch applies a field patch to the settings document.
// @Summary Patch Settings
// @Description Assigns the given fields on the settings document. A null value clears a field. Effective transitions are recorded in the change trail with the given source (local when omitted) and actor.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body PatchRequest true "Fields to assign, source, and actor"
// @Success 200 {object} map[string]interface{} "Updated document and recorded changes"
// @Failure 400 {object} map[string]string "Empty patch or unknown source"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /settings [patch]
func (h *Handler) HandlePatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req PatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "patch assigns no fields"})
	}
	source, err := parseSource(req.Source)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	doc, changes, err := h.service.ApplyPatch(c.Context(),
		patch.Patch{Fields: req.Fields},
		patch.Meta{Source: source, Actor: req.Actor})
	if err != nil {
		l.Error("Settings patch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"document": doc,
		"changes":  changes,
	})
}

// HandleChanges returns the recorded change trail.
// @Summary List Setting Changes
// @Description Returns the recorded change trail oldest-first. Filter by source with ?source=local|remote|import.
// @Tags settings
// @Accept json
// @Produce json
// @Param source query string false "Only changes from this source"
// @Success 200 {array} patch.Change "Recorded changes"
// @Failure 400 {object} map[string]string "Unknown source"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /settings/changes [get]
func (h *Handler) HandleChanges(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var source patch.Source
	if q := c.Query("source"); q != "" {
		parsed, err := parseSource(q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		source = parsed
	}

	changes, err := h.service.History(c.Context(), source)
	if err != nil {
		l.Error("Settings history lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(changes)
}

// HandleDriftCheck compares a mirror against the stored document.
// @Summary Check Settings Drift
// @Description Compares a caller-held mirror of the settings document against the stored one and lists every disagreeing field. Comparison only; nothing is changed.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body DriftRequest true "Mirror of the document"
// @Success 200 {object} patch.SyncReport "Drift report"
// @Failure 400 {object} map[string]string "Bad request body"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /settings/drift [post]
func (h *Handler) HandleDriftCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req DriftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.CheckDrift(c.Context(), req.Mirror)
	if err != nil {
		l.Error("Settings drift check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.InSync {
		l.Warn("Settings mirror drifted", zap.Int("mismatches", len(report.Mismatches)))
	}

	return c.JSON(report)
}
