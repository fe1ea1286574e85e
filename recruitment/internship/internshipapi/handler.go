package internshipapi

import (
	"github.com/Abraxas-365/prointern/internal/httpx"
	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/internship/internshipsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for internship postings
type Handlers struct {
	service *internshipsrv.InternshipService
}

// NewHandlers creates new internship handlers
func NewHandlers(service *internshipsrv.InternshipService) *Handlers {
	return &Handlers{service: service}
}

// CreateInternship publishes a posting owned by the caller
// POST /api/internships
func (h *Handlers) CreateInternship(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req internship.CreateInternshipRequest
	if err := c.BodyParser(&req); err != nil {
		return internship.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	created, err := h.service.CreateInternship(c.Context(), kernel.RecruiterID(authContext.UserID), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetInternship returns one posting
// GET /api/internships/:id
func (h *Handlers) GetInternship(c *fiber.Ctx) error {
	id := kernel.InternshipID(c.Params("id"))
	if id.IsEmpty() {
		return internship.ErrInternshipNotFound().WithDetail("id", "missing or empty")
	}

	found, err := h.service.GetInternship(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(found)
}

// ListMyInternships lists the caller's postings, optionally filtered by ?q=
// GET /api/internships
func (h *Handlers) ListMyInternships(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	req := internship.ListInternshipsRequest{
		Query:      c.Query("q"),
		Pagination: httpx.ParsePagination(c),
	}
	page, err := h.service.ListInternshipsForRecruiter(c.Context(), kernel.RecruiterID(authContext.UserID), req)
	if err != nil {
		return err
	}
	return c.JSON(internship.InternshipListResponse{Internships: *page})
}

// UpdateInternship edits a posting owned by the caller
// PUT /api/internships/:id
func (h *Handlers) UpdateInternship(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req internship.UpdateInternshipRequest
	if err := c.BodyParser(&req); err != nil {
		return internship.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	updated, err := h.service.UpdateInternship(c.Context(), kernel.RecruiterID(authContext.UserID), kernel.InternshipID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// DeleteInternship is refused once the posting has applications
// DELETE /api/internships/:id
func (h *Handlers) DeleteInternship(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	if err := h.service.DeleteInternship(c.Context(), kernel.RecruiterID(authContext.UserID), kernel.InternshipID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers all internship routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/internships", authMiddleware.Authenticate())

	api.Get("/",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInternshipsRead),
		handlers.ListMyInternships,
	)

	api.Post("/",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInternshipsWrite),
		handlers.CreateInternship,
	)

	api.Get("/:id",
		authMiddleware.RequireScope(auth.ScopeInternshipsRead),
		handlers.GetInternship,
	)

	api.Put("/:id",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInternshipsWrite),
		handlers.UpdateInternship,
	)

	api.Delete("/:id",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInternshipsDelete),
		handlers.DeleteInternship,
	)
}
