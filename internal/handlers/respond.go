package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stallcraft/stallcraft/internal/content"
	"github.com/stallcraft/stallcraft/internal/docstore"
	"github.com/stallcraft/stallcraft/internal/media"
)

// Envelope is the uniform response shape every route returns. ErrorCode "NO"
// signals success; dashboard clients branch on it.
type Envelope struct {
	StatusCode   int    `json:"statusCode"`
	Message      string `json:"message,omitempty"`
	Data         any    `json:"data,omitempty"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
		ErrorCode:  "NO",
	})
}

func respondError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{
		StatusCode:   status,
		ErrorCode:    code,
		ErrorMessage: message,
	})
}

// mapError translates service and pipeline failures into the envelope.
// Internal detail is logged with the operation name; clients get the mapped
// code plus a short message.
func mapError(c echo.Context, log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, content.ErrValidation):
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, media.ErrPayloadTooLarge):
		return respondError(c, http.StatusBadRequest, "PAYLOAD_TOO_LARGE", "File size exceeds the 50MB limit")
	case errors.Is(err, media.ErrUnsupportedInput):
		return respondError(c, http.StatusBadRequest, "UNSUPPORTED_MEDIA", "Unsupported media file")
	case errors.Is(err, media.ErrNoMediaProvided):
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "No media provided")
	case errors.Is(err, media.ErrInvalidMediaURL):
		return respondError(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid media URL")
	default:
		log.Error("request failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
	}
}
