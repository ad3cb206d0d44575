package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stallcraft/stallcraft/internal/content"
	"github.com/stallcraft/stallcraft/internal/media"
)

type BlogHandler struct {
	service *content.BlogService
	media   *media.Service
	logger  *slog.Logger
}

func NewBlogHandler(log *slog.Logger, service *content.BlogService, mediaService *media.Service) *BlogHandler {
	return &BlogHandler{
		service: service,
		media:   mediaService,
		logger:  log.With(slog.String("handler", "blogs")),
	}
}

func (h *BlogHandler) Register(e *echo.Echo) {
	group := e.Group("/api/routes/blogs")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *BlogHandler) List(c echo.Context) error {
	force := c.QueryParam("refresh") == "true"
	blogs, err := h.service.List(c.Request().Context(), force)
	if err != nil {
		return mapError(c, h.logger, "list blogs", err)
	}
	return respond(c, http.StatusOK, "Blogs fetched successfully", blogs)
}

func (h *BlogHandler) Get(c echo.Context) error {
	blog, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, h.logger, "get blog", err)
	}
	return respond(c, http.StatusOK, "Blog fetched successfully", blog)
}

func (h *BlogHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	title := strings.TrimSpace(c.FormValue("title"))
	summary := strings.TrimSpace(c.FormValue("summary"))
	upload, closer, err := formUpload(c, "image", &media.Dimensions{
		Width:  content.BlogImageWidth,
		Height: content.BlogImageHeight,
	})
	if err != nil {
		return mapError(c, h.logger, "create blog", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	if title == "" || summary == "" || upload == nil {
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Title, summary, and image are required")
	}

	stored, err := h.media.Upload(ctx, *upload)
	if err != nil {
		return mapError(c, h.logger, "upload blog image", err)
	}

	created, err := h.service.Add(ctx, map[string]any{
		"title":   title,
		"summary": summary,
		"image":   stored.URL,
	})
	if err != nil {
		// The blob is orphaned now; the sweeper collects it.
		h.logger.Warn("blog insert failed after image upload", slog.String("image", stored.URL))
		return mapError(c, h.logger, "create blog", err)
	}
	return respond(c, http.StatusCreated, "Blog created successfully", created)
}

func (h *BlogHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		return mapError(c, h.logger, "update blog", err)
	}

	patch := map[string]any{}
	if title := strings.TrimSpace(c.FormValue("title")); title != "" {
		patch["title"] = title
	}
	if summary := strings.TrimSpace(c.FormValue("summary")); summary != "" {
		patch["summary"] = summary
	}

	upload, closer, err := formUpload(c, "image", &media.Dimensions{
		Width:  content.BlogImageWidth,
		Height: content.BlogImageHeight,
	})
	if err != nil {
		return mapError(c, h.logger, "update blog", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	if upload != nil {
		replaced, err := h.media.Replace(ctx, upload, existing.Image)
		if err != nil {
			return mapError(c, h.logger, "replace blog image", err)
		}
		patch["image"] = replaced.URL
	}

	updated, err := h.service.Update(ctx, id, patch)
	if err != nil {
		return mapError(c, h.logger, "update blog", err)
	}
	return respond(c, http.StatusOK, "Blog updated successfully", updated)
}

func (h *BlogHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		return mapError(c, h.logger, "delete blog", err)
	}

	// Media goes first: a crash between the two steps must leave an orphaned
	// blob at worst, never a record pointing at a deleted one. A cleanup
	// failure does not block the delete; the document is the source of truth.
	if err := h.media.Delete(ctx, existing.Image); err != nil {
		h.logger.Warn("blog image cleanup failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}

	if err := h.service.Delete(ctx, id); err != nil {
		return mapError(c, h.logger, "delete blog", err)
	}
	return respond(c, http.StatusOK, "Blog deleted successfully", map[string]any{"success": true, "id": id})
}
