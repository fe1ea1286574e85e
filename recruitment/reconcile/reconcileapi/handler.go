package reconcileapi

import (
	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/reconcile/reconcilesrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the read-repair queue to recruiters
type Handlers struct {
	service *reconcilesrv.Service
}

// NewHandlers creates the reconcile handlers
func NewHandlers(service *reconcilesrv.Service) *Handlers {
	return &Handlers{service: service}
}

// RequestRepair queues a job that re-adds one application to both mirror sets
// POST /api/reconcile/applications/:id
func (h *Handlers) RequestRepair(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	job, err := h.service.RequestRepair(c.Context(), kernel.RecruiterID(authContext.UserID), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(job)
}

// RequestRebuild queues a full regeneration of the intern and internship
// mirrors the application belongs to
// POST /api/reconcile/applications/:id/rebuild
func (h *Handlers) RequestRebuild(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	job, err := h.service.RequestRebuild(c.Context(), kernel.RecruiterID(authContext.UserID), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(job)
}

// Stats reports the ready and delayed queue depths
// GET /api/reconcile/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// RegisterRoutes registers the recruiter-only reconcile routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/reconcile",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(auth.RoleRecruiter),
	)

	api.Post("/applications/:id",
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.RequestRepair,
	)
	api.Post("/applications/:id/rebuild",
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.RequestRebuild,
	)
	api.Get("/stats", handlers.Stats)
}
