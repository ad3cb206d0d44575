package handlers

import (
	"io"

	"github.com/labstack/echo/v4"

	"github.com/stallcraft/stallcraft/internal/media"
)

// formUpload extracts the named file field from a multipart request as a
// media upload input. A missing field (or a non-multipart body) yields a nil
// input, not an error; whether a file is required is the route's decision.
// The returned closer must be closed after the upload completes.
func formUpload(c echo.Context, field string, resize *media.Dimensions) (*media.UploadInput, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &media.UploadInput{
		Reader:       f,
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		Resize:       resize,
	}, f, nil
}
