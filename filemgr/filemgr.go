package filemgr

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"parkly/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	maxUploadBytes = 10 << 20
	thumbWidth     = 200
)

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func dataDir() string {
	if d := os.Getenv("PARKLY_DATA_DIR"); d != "" {
		return d
	}
	return filepath.Join("static", "uploads")
}

// SaveVehiclePhoto reads the "photo" part of a multipart request, stores the
// original under vehicles/ and a 200px-wide JPEG thumbnail alongside it.
// Returns the relative paths of both files.
func SaveVehiclePhoto(r *http.Request, vehicleID string) (string, string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		return "", "", fmt.Errorf("no photo uploaded")
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return "", "", fmt.Errorf("photo too large")
	}
	if !allowedMIMEs[header.Header.Get("Content-Type")] {
		return "", "", fmt.Errorf("unsupported photo type; use JPEG, PNG or WebP")
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to read photo: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image %q: %w", header.Filename, err)
	}

	dir := filepath.Join(dataDir(), "vehicles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(utils.SanitizeFilename(header.Filename)))
	if ext == "" {
		ext = ".jpg"
	}
	base := vehicleID + "-" + uuid.NewString()[:8]
	origPath := filepath.Join(dir, base+ext)
	if err := os.WriteFile(origPath, buf, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to save photo: %w", err)
	}

	thumbPath := filepath.Join(dir, base+"_thumb.jpg")
	resized := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos) // maintain aspect ratio
	out, err := os.Create(thumbPath)
	if err != nil {
		return origPath, "", fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer out.Close()
	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return origPath, "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return origPath, thumbPath, nil
}
