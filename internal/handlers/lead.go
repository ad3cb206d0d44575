package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/stallcraft/stallcraft/internal/content"
)

// LeadHandler takes contact-form submissions and serves them to the
// dashboard. Submissions arrive as JSON, unlike the multipart collections.
type LeadHandler struct {
	service  *content.LeadService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewLeadHandler(log *slog.Logger, service *content.LeadService) *LeadHandler {
	return &LeadHandler{
		service:  service,
		validate: validator.New(),
		logger:   log.With(slog.String("handler", "leads")),
	}
}

func (h *LeadHandler) Register(e *echo.Echo) {
	e.POST("/api/routes/contact", h.Submit)
	group := e.Group("/api/routes/leads")
	group.GET("", h.List)
	group.DELETE("/:id", h.Delete)
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

func (h *LeadHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Name, email, and message are required")
	}

	created, err := h.service.Add(c.Request().Context(), map[string]any{
		"name":    strings.TrimSpace(req.Name),
		"email":   strings.TrimSpace(req.Email),
		"phone":   strings.TrimSpace(req.Phone),
		"message": strings.TrimSpace(req.Message),
	})
	if err != nil {
		return mapError(c, h.logger, "submit lead", err)
	}
	return respond(c, http.StatusCreated, "Message submitted successfully", created)
}

func (h *LeadHandler) List(c echo.Context) error {
	force := c.QueryParam("refresh") == "true"
	leads, err := h.service.List(c.Request().Context(), force)
	if err != nil {
		return mapError(c, h.logger, "list leads", err)
	}
	return respond(c, http.StatusOK, "Leads fetched successfully", leads)
}

func (h *LeadHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapError(c, h.logger, "delete lead", err)
	}
	return respond(c, http.StatusOK, "Lead deleted successfully", map[string]any{"success": true, "id": id})
}
