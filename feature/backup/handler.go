package backup

import (
	"errors"

	engine "reg-manager/core/backup"
	"reg-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for artifacts and merge runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the backup routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/backup")
	group.Post("/artifacts", h.HandleUpload)
	group.Get("/artifacts", h.HandleList)
	group.Delete("/artifacts/:id", h.HandleRemove)
	group.Post("/analyze", h.HandleAnalyze)
	group.Post("/merge", h.HandleMerge)
	group.Post("/snapshot", h.HandleSnapshot)
}

// statusFor maps service errors onto HTTP statuses. Artifact and policy
// problems are the caller's fault; a missing store or a failed unit of work
// is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrMalformedArtifact),
		errors.Is(err, engine.ErrUnsupportedVersion),
		errors.Is(err, engine.ErrPolicyViolation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleUpload validates and stores an uploaded artifact.
// @Summary Upload Artifact
// @Description Validates an exported backup document and stores it in the artifact repository. The request body is the raw artifact JSON.
// @Tags backup
// @Accept json
// @Produce json
// @Success 201 {object} ArtifactRef "Stored artifact reference"
// @Failure 400 {object} map[string]string "Malformed or unsupported artifact"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backup/artifacts [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	ref, err := h.service.Upload(c.Context(), c.Body())
	if err != nil {
		l.Error("Artifact upload rejected", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(ref)
}

// HandleList lists stored artifacts.
// @Summary List Artifacts
// @Description Lists the references of every artifact in the repository.
// @Tags backup
// @Accept json
// @Produce json
// @Success 200 {array} ArtifactRef "Artifact references"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backup/artifacts [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	refs, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Artifact listing failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(refs)
}

// HandleRemove deletes a stored artifact.
// @Summary Remove Artifact
// @Description Removes an artifact from the repository by its reference.
// @Tags backup
// @Accept json
// @Produce json
// @Param id path string true "Artifact reference"
// @Success 200 {object} map[string]string "Removal confirmation"
// @Failure 404 {object} map[string]string "Unknown artifact reference"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backup/artifacts/{id} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")

	if err := h.service.Remove(c.Context(), id); err != nil {
		l.Error("Artifact removal failed", zap.String("artifact_id", id), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "removed", "id": id})
}

// HandleAnalyze classifies an artifact against the live store.
// @Summary Analyze Artifact
// @Description Classifies every row of a stored artifact against the live store (new, identical, conflicting) without writing anything. The response carries per-table statistics, proposed conflict resolutions, and the table order a merge would use.
// @Tags backup
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Artifact reference and run options"
// @Success 200 {object} engine.Analysis "Classification report"
// @Failure 400 {object} map[string]string "Bad request, artifact, or options"
// @Failure 404 {object} map[string]string "Unknown artifact reference"
// @Failure 503 {object} map[string]string "Registration store unavailable"
// @Router /backup/analyze [post]
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	analysis, err := h.service.Analyze(c.Context(), req.ArtifactID, req.Options)
	if err != nil {
		l.Error("Analysis failed", zap.String("artifact_id", req.ArtifactID), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Artifact analyzed",
		zap.String("artifact_id", req.ArtifactID),
		zap.Int("conflicts", len(analysis.Conflicts)))

	return c.JSON(analysis)
}

// HandleMerge applies an artifact to the live store.
// @Summary Merge Artifact
// @Description Applies a stored artifact to the live store under the requested policy. Set options.dry_run to get the full report without writing, and overrides (keyed "table/recordID") to settle conflicts under the manual policy.
// @Tags backup
// @Accept json
// @Produce json
// @Param request body MergeRequest true "Artifact reference, run options, and overrides"
// @Success 200 {object} engine.Result "Merge report"
// @Failure 400 {object} map[string]string "Bad request, artifact, options, or overrides"
// @Failure 404 {object} map[string]string "Unknown artifact reference"
// @Failure 500 {object} map[string]string "Merge failed and was rolled back"
// @Failure 503 {object} map[string]string "Registration store unavailable"
// @Router /backup/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Merge(c.Context(), req.ArtifactID, req.Options, req.Overrides)
	if err != nil {
		l.Error("Merge failed", zap.String("artifact_id", req.ArtifactID), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Merge finished",
		zap.String("artifact_id", req.ArtifactID),
		zap.Bool("dry_run", result.Simulated),
		zap.Int("imported", result.TotalImported()),
		zap.Int("skipped", result.TotalSkipped()),
		zap.Int("errors", len(result.Errors)))

	return c.JSON(result)
}

// HandleSnapshot captures the live store as a new artifact.
// @Summary Snapshot Store
// @Description Exports the current registration store as a backup artifact and stores it in the repository.
// @Tags backup
// @Accept json
// @Produce json
// @Param request body SnapshotRequest false "Optional exporter label"
// @Success 201 {object} ArtifactRef "Stored snapshot reference"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Registration store unavailable"
// @Router /backup/snapshot [post]
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SnapshotRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	ref, err := h.service.Snapshot(c.Context(), req.ExportedBy)
	if err != nil {
		l.Error("Snapshot failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Snapshot stored", zap.String("artifact_id", ref.ID), zap.Int("rows", ref.Rows))

	return c.Status(fiber.StatusCreated).JSON(ref)
}
