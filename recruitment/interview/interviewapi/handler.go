package interviewapi

import (
	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/interview/interviewsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for interview scheduling
type Handlers struct {
	service *interviewsrv.InterviewService
}

// NewHandlers creates new interview handlers
func NewHandlers(service *interviewsrv.InterviewService) *Handlers {
	return &Handlers{service: service}
}

// ScheduleInterview attaches an interview to an application
// POST /api/applications/:id/interview
func (h *Handlers) ScheduleInterview(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	var req interview.ScheduleInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return interview.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	iv, err := h.service.Schedule(c.Context(), kernel.RecruiterID(authContext.UserID), applicationID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(iv)
}

// GetSchedule returns the attached interview, or null when there is none
// GET /api/applications/:id/interview
func (h *Handlers) GetSchedule(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	schedule, err := h.service.FetchForApplicant(c.Context(), authContext.UserID, kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(interview.ScheduleResponse{Interview: schedule})
}

// UpdateInterview reschedules an existing interview
// PUT /api/interviews/:id
func (h *Handlers) UpdateInterview(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req interview.UpdateInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return interview.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	iv, err := h.service.Update(c.Context(), kernel.RecruiterID(authContext.UserID), kernel.InterviewID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(iv)
}

// RegisterRoutes registers all interview routes. The application scoped
// routes are mounted without a group so they share /api/applications.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	app.Post("/api/applications/:id/interview",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInterviewsSchedule),
		handlers.ScheduleInterview,
	)

	app.Get("/api/applications/:id/interview",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeInterviewsRead),
		handlers.GetSchedule,
	)

	api := app.Group("/api/interviews", authMiddleware.Authenticate())

	api.Put("/:id",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInterviewsSchedule),
		handlers.UpdateInterview,
	)
}
