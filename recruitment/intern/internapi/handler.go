package internapi

import (
	"io"

	"github.com/Abraxas-365/prointern/pkg/iam/auth"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/intern/internsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for intern profiles and CVs
type Handlers struct {
	service *internsrv.InternService
}

// NewHandlers creates new intern handlers
func NewHandlers(service *internsrv.InternService) *Handlers {
	return &Handlers{service: service}
}

// GetMyProfile returns the caller's intern profile
// GET /api/interns/me
func (h *Handlers) GetMyProfile(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	profile, err := h.service.GetProfile(c.Context(), kernel.InternID(authContext.UserID))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// SaveMyProfile creates or updates the caller's profile
// PUT /api/interns/me
func (h *Handlers) SaveMyProfile(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	var req intern.SaveProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return intern.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	profile, err := h.service.SaveProfile(c.Context(), kernel.InternID(authContext.UserID), req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UploadCV accepts a multipart "cv" field or a raw application/pdf body
// POST /api/interns/me/cv
func (h *Handlers) UploadCV(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrMissingToken()
	}

	req, err := readCV(c)
	if err != nil {
		return err
	}

	resp, err := h.service.UploadCV(c.Context(), kernel.InternID(authContext.UserID), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCVLink returns a short-lived download link for an intern's CV
// GET /api/interns/:id/cv
func (h *Handlers) GetCVLink(c *fiber.Ctx) error {
	id := kernel.InternID(c.Params("id"))
	if id.IsEmpty() {
		return intern.ErrInternNotFound().WithDetail("id", "missing or empty")
	}

	link, err := h.service.GetDownloadLink(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(link)
}

func readCV(c *fiber.Ctx) (intern.UploadCVRequest, error) {
	file, err := c.FormFile("cv")
	if err != nil {
		// not multipart, take the body as is
		return intern.UploadCVRequest{
			Data:        c.Body(),
			ContentType: c.Get(fiber.HeaderContentType),
		}, nil
	}

	f, err := file.Open()
	if err != nil {
		return intern.UploadCVRequest{}, intern.ErrInvalidRequest().WithDetail("error", err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return intern.UploadCVRequest{}, intern.ErrInvalidRequest().WithDetail("error", err.Error())
	}
	return intern.UploadCVRequest{
		Data:        data,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		FileName:    file.Filename,
	}, nil
}

// RegisterRoutes registers all intern routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/interns", authMiddleware.Authenticate())

	me := api.Group("/me", authMiddleware.RequireRole(auth.RoleIntern))
	me.Get("/", handlers.GetMyProfile)
	me.Put("/", handlers.SaveMyProfile)
	me.Post("/cv",
		authMiddleware.RequireScope(auth.ScopeInternsWriteCV),
		handlers.UploadCV,
	)

	api.Get("/:id/cv",
		authMiddleware.RequireRole(auth.RoleRecruiter),
		authMiddleware.RequireScope(auth.ScopeInternsReadCV),
		handlers.GetCVLink,
	)
}
