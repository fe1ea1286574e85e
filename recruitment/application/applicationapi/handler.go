package applicationapi

import (
	"context"

	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/prointern/recruitment/application/reviewsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
	review  *reviewsrv.ReviewService
}

// NewHandlers creates new application handlers
func NewHandlers(service *applicationsrv.ApplicationService, review *reviewsrv.ReviewService) *Handlers {
	return &Handlers{
		service: service,
		review:  review,
	}
}

// CreateApplication applies the caller to an internship
// POST /api/applications
func (h *Handlers) CreateApplication(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req application.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.CreateApplication(c.Context(), kernel.InternID(authContext.UserID), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

// ListMyApplications shows the caller's applications with interview details
// GET /api/applications/mine
func (h *Handlers) ListMyApplications(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	views, err := h.service.ListApplicationsForIntern(c.Context(), kernel.InternID(authContext.UserID))
	if err != nil {
		return err
	}
	return c.JSON(application.NewApplicationListResponse(views))
}

// ListRecruiterApplications lists applicants across the caller's postings
// GET /api/applications/recruiter?q=&status=
func (h *Handlers) ListRecruiterApplications(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var filter application.RecruiterListFilter
	if err := c.QueryParser(&filter); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	views, err := h.service.ListApplicationsForRecruiter(c.Context(), kernel.RecruiterID(authContext.UserID), filter)
	if err != nil {
		return err
	}
	return c.JSON(application.NewApplicationListResponse(views))
}

// AcceptApplication closes an Applied or In Review application as Accepted
// POST /api/applications/:id/accept
func (h *Handlers) AcceptApplication(c *fiber.Ctx) error {
	return h.decide(c, h.review.Accept)
}

// RejectApplication closes an Applied or In Review application as Rejected
// POST /api/applications/:id/reject
func (h *Handlers) RejectApplication(c *fiber.Ctx) error {
	return h.decide(c, h.review.Reject)
}

type decision func(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID) (*application.Application, error)

// decide runs a review decision for the calling recruiter
func (h *Handlers) decide(c *fiber.Ctx, fn decision) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	id := kernel.ApplicationID(c.Params("id"))
	if id.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	app, err := fn(c.Context(), kernel.RecruiterID(authContext.UserID), id)
	if err != nil {
		return err
	}
	return c.JSON(app)
}

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/applications", authMiddleware.Authenticate())

	api.Post("/",
		authMiddleware.RequireRole(auth.RoleIntern),
		authMiddleware.RequireScope(auth.ScopeApplicationsApply),
		handlers.CreateApplication,
	)

	api.Get("/mine",
		authMiddleware.RequireRole(auth.RoleIntern),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListMyApplications,
	)

	api.Get("/recruiter",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListRecruiterApplications,
	)

	api.Post("/:id/accept",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.AcceptApplication,
	)

	api.Post("/:id/reject",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.RejectApplication,
	)
}
