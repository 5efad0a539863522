package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alvinsyah/goblog/config"
)

// Upload failures the controllers translate into 400 responses.
var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrInvalidFileType = errors.New("invalid file type, only JPG, PNG, GIF are allowed")
	ErrFileTooLarge    = errors.New("file size exceeds the allowed maximum")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// SavePostImage accepts the single image attachment of a multipart request,
// validates its declared MIME type and size, and stores it in the upload
// directory under a collision-resistant name: post-<hint>-<random>.<ext>.
// It returns the stored filename.
func SavePostImage(ctx *gin.Context, field, slugHint string) (string, error) {
	file, header, err := ctx.Request.FormFile(field)
	if err != nil {
		return "", ErrNoFile
	}
	defer file.Close()

	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		return "", ErrInvalidFileType
	}

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) << 20
	if header.Size > maxSize {
		return "", ErrFileTooLarge
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	if slugHint == "" {
		slugHint = "image"
	}
	ext := filepath.Ext(header.Filename)
	name := fmt.Sprintf("post-%s-%s%s", slugHint, uuid.NewString()[:8], ext)
	dstPath := filepath.Join(cfg.UploadDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	// The declared size can lie; cap the copy as well.
	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		return "", ErrFileTooLarge
	}

	return name, nil
}

// DeleteImage removes a stored upload by filename. A missing file is a no-op,
// not an error, so compensating cleanup can run on every rejection branch.
func DeleteImage(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(config.Get().UploadDir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
