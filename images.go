package teamupdates

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/Amit-Sucher/team-updates/views"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processImage decodes an image from src, resizes it to maxImageWidth if
// wider, and encodes it as JPEG. Returns metadata and the encoded bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Filename:     slugifyFilename(originalName) + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if slug := Slugify(base); slug != "" {
		return slug
	}
	return "image"
}

// ensureUniqueFilename appends a counter while the candidate name collides
// on disk or in the metadata table.
func (a *App) ensureUniqueFilename(c echo.Context, img *Image) {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	base := strings.TrimSuffix(img.Filename, ".jpg")
	existing, _ := a.Store.ListImages(c.Request().Context())
	taken := make(map[string]struct{}, len(existing))
	for _, ex := range existing {
		taken[ex.Filename] = struct{}{}
	}

	candidate := img.Filename
	counter := 1
	for {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		_, inDB := taken[candidate]
		if statErr != nil && !inDB {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	img.Filename = candidate
}

// handleImageUpload is the upload side-channel the composer invokes. It
// accepts one multipart image and responds with the hosted URL; the caller
// splices that into the content or uses it as the featured image.
func (a *App) handleImageUpload(c echo.Context) error {
	if CurrentSession(c) == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No image file provided"})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File too large (max 10MB)"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid image"})
	}

	a.ensureUniqueFilename(c, &img)

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create uploads dir: %w", ErrUploadFailed, err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("%w: write image: %w", ErrUploadFailed, err)
	}
	if err := a.Store.SaveImage(c.Request().Context(), img); err != nil {
		// Without the metadata row the file would be orphaned on disk.
		_ = os.Remove(filepath.Join(dir, img.Filename))
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"url": "/public/" + uploadsSubdir + "/" + img.Filename})
}

func (a *App) handleImageList(c echo.Context) error {
	if CurrentSession(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	images, err := a.Store.ListImages(c.Request().Context())
	if err != nil {
		return err
	}
	list := make([]views.ImageItem, 0, len(images))
	for _, img := range images {
		list = append(list, views.ImageItem{
			Filename: img.Filename,
			URL:      "/public/" + uploadsSubdir + "/" + img.Filename,
			Width:    img.Width,
			Height:   img.Height,
			Size:     img.Size,
		})
	}
	return Render(c, views.ImageList(a.site(), list, CsrfToken(c)))
}

func (a *App) handleImageDelete(c echo.Context) error {
	if CurrentSession(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) {
		return c.String(http.StatusBadRequest, "Filename required")
	}
	// Remove the file first; a missing file is fine, the metadata row is
	// what the admin list renders from.
	_ = os.Remove(filepath.Join(a.staticDir, uploadsSubdir, filename))
	if err := a.Store.DeleteImage(c.Request().Context(), filename); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
