package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stallcraft/stallcraft/internal/content"
	"github.com/stallcraft/stallcraft/internal/media"
)

type TestimonialHandler struct {
	service *content.TestimonialService
	media   *media.Service
	logger  *slog.Logger
}

func NewTestimonialHandler(log *slog.Logger, service *content.TestimonialService, mediaService *media.Service) *TestimonialHandler {
	return &TestimonialHandler{
		service: service,
		media:   mediaService,
		logger:  log.With(slog.String("handler", "testimonials")),
	}
}

func (h *TestimonialHandler) Register(e *echo.Echo) {
	group := e.Group("/api/routes/testimonials")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *TestimonialHandler) List(c echo.Context) error {
	force := c.QueryParam("refresh") == "true"
	testimonials, err := h.service.List(c.Request().Context(), force)
	if err != nil {
		return mapError(c, h.logger, "list testimonials", err)
	}
	return respond(c, http.StatusOK, "Testimonials fetched successfully", testimonials)
}

func (h *TestimonialHandler) Get(c echo.Context) error {
	testimonial, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, h.logger, "get testimonial", err)
	}
	return respond(c, http.StatusOK, "Testimonial fetched successfully", testimonial)
}

func (h *TestimonialHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	input := testimonialInput(c)
	upload, closer, err := formUpload(c, "media", &media.Dimensions{
		Width:  content.TestimonialImageWidth,
		Height: content.TestimonialImageHeight,
	})
	if err != nil {
		return mapError(c, h.logger, "create testimonial", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	var contentType string
	if upload != nil {
		contentType = upload.ContentType
	}
	evidence := content.ResolveEvidence(upload != nil, contentType)
	if err := input.Validate(evidence); err != nil {
		return mapError(c, h.logger, "create testimonial", err)
	}

	var mediaURL string
	if upload != nil {
		stored, err := h.media.Upload(ctx, *upload)
		if err != nil {
			return mapError(c, h.logger, "upload testimonial media", err)
		}
		mediaURL = stored.URL
	}

	created, err := h.service.Add(ctx, input.Fields(evidence, mediaURL))
	if err != nil {
		if mediaURL != "" {
			h.logger.Warn("testimonial insert failed after media upload", slog.String("media", mediaURL))
		}
		return mapError(c, h.logger, "create testimonial", err)
	}
	return respond(c, http.StatusCreated, "Testimonial created successfully", created)
}

func (h *TestimonialHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		return mapError(c, h.logger, "update testimonial", err)
	}

	patch := map[string]any{}
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		patch["name"] = name
	}
	if description := strings.TrimSpace(c.FormValue("description")); description != "" {
		patch["description"] = description
	}
	if spread := strings.TrimSpace(c.FormValue("spread")); spread != "" {
		patch["spread"] = spread
	}
	if status := strings.TrimSpace(c.FormValue("status")); status != "" {
		patch["status"] = status
	}
	if rawRating := strings.TrimSpace(c.FormValue("rating")); rawRating != "" {
		rating, err := strconv.Atoi(rawRating)
		if err != nil || rating < 1 || rating > 5 {
			return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Rating must be between 1 and 5")
		}
		patch["rating"] = rating
	}

	upload, closer, err := formUpload(c, "media", &media.Dimensions{
		Width:  content.TestimonialImageWidth,
		Height: content.TestimonialImageHeight,
	})
	if err != nil {
		return mapError(c, h.logger, "update testimonial", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	if upload != nil {
		replaced, err := h.media.Replace(ctx, upload, existing.Media)
		if err != nil {
			return mapError(c, h.logger, "replace testimonial media", err)
		}
		patch["media"] = replaced.URL
		patch["mediaType"] = string(replaced.Kind)
	}

	updated, err := h.service.Update(ctx, id, patch)
	if err != nil {
		return mapError(c, h.logger, "update testimonial", err)
	}
	return respond(c, http.StatusOK, "Testimonial updated successfully", updated)
}

func (h *TestimonialHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		return mapError(c, h.logger, "delete testimonial", err)
	}

	if err := h.media.Delete(ctx, existing.Media); err != nil {
		h.logger.Warn("testimonial media cleanup failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}

	if err := h.service.Delete(ctx, id); err != nil {
		return mapError(c, h.logger, "delete testimonial", err)
	}
	return respond(c, http.StatusOK, "Testimonial deleted successfully", map[string]any{"success": true, "id": id})
}

func testimonialInput(c echo.Context) content.TestimonialInput {
	rating, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("rating")))
	return content.TestimonialInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Spread:      c.FormValue("spread"),
		Rating:      rating,
		Status:      strings.TrimSpace(c.FormValue("status")),
	}
}
