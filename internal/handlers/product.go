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

type ProductHandler struct {
	service *content.ProductService
	media   *media.Service
	logger  *slog.Logger
}

func NewProductHandler(log *slog.Logger, service *content.ProductService, mediaService *media.Service) *ProductHandler {
	return &ProductHandler{
		service: service,
		media:   mediaService,
		logger:  log.With(slog.String("handler", "products")),
	}
}

func (h *ProductHandler) Register(e *echo.Echo) {
	group := e.Group("/api/routes/products")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *ProductHandler) List(c echo.Context) error {
	force := c.QueryParam("refresh") == "true"
	products, err := h.service.List(c.Request().Context(), force)
	if err != nil {
		return mapError(c, h.logger, "list products", err)
	}
	return respond(c, http.StatusOK, "Products fetched successfully", products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, h.logger, "get product", err)
	}
	return respond(c, http.StatusOK, "Product fetched successfully", product)
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	name := strings.TrimSpace(c.FormValue("name"))
	description := strings.TrimSpace(c.FormValue("description"))
	price, priceErr := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	upload, closer, err := formUpload(c, "image", &media.Dimensions{
		Width:  content.ProductImageWidth,
		Height: content.ProductImageHeight,
	})
	if err != nil {
		return mapError(c, h.logger, "create product", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	if name == "" || description == "" || priceErr != nil || upload == nil {
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Name, description, price, and image are required")
	}

	stored, err := h.media.Upload(ctx, *upload)
	if err != nil {
		return mapError(c, h.logger, "upload product image", err)
	}

	created, err := h.service.Add(ctx, map[string]any{
		"name":        name,
		"description": description,
		"price":       price,
		"image":       stored.URL,
	})
	if err != nil {
		h.logger.Warn("product insert failed after image upload", slog.String("image", stored.URL))
		return mapError(c, h.logger, "create product", err)
	}
	return respond(c, http.StatusCreated, "Product added successfully", created)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		return mapError(c, h.logger, "update product", err)
	}

	patch := map[string]any{}
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		patch["name"] = name
	}
	if description := strings.TrimSpace(c.FormValue("description")); description != "" {
		patch["description"] = description
	}
	if rawPrice := strings.TrimSpace(c.FormValue("price")); rawPrice != "" {
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Price must be a number")
		}
		patch["price"] = price
	}

	upload, closer, err := formUpload(c, "image", &media.Dimensions{
		Width:  content.ProductImageWidth,
		Height: content.ProductImageHeight,
	})
	if err != nil {
		return mapError(c, h.logger, "update product", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	if upload != nil {
		replaced, err := h.media.Replace(ctx, upload, existing.Image)
		if err != nil {
			return mapError(c, h.logger, "replace product image", err)
		}
		patch["image"] = replaced.URL
	}

	updated, err := h.service.Update(ctx, id, patch)
	if err != nil {
		return mapError(c, h.logger, "update product", err)
	}
	return respond(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		return mapError(c, h.logger, "delete product", err)
	}

	if err := h.media.Delete(ctx, existing.Image); err != nil {
		h.logger.Warn("product image cleanup failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
	}

	if err := h.service.Delete(ctx, id); err != nil {
		return mapError(c, h.logger, "delete product", err)
	}
	return respond(c, http.StatusOK, "Product deleted successfully", map[string]any{"success": true, "id": id})
}
