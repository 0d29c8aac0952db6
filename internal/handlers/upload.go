package handlers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// MaxAvatarSize limits avatar uploads
	MaxAvatarSize = 2 * 1024 * 1024 // 2MB
	// MaxImageSize limits group cover image uploads
	MaxImageSize = 5 * 1024 * 1024 // 5MB
	// AllowedImageExts lists accepted image extensions
	AllowedImageExts = ".jpg,.jpeg,.png,.gif,.webp"
)

// UploadHandler serves avatar and group cover image uploads.
type UploadHandler struct {
	uploadDir string
}

// NewUploadHandler creates an UploadHandler storing files under uploadDir.
func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// UploadAvatar handles avatar uploads
func (h *UploadHandler) UploadAvatar(c *fiber.Ctx) error {
	return h.saveImage(c, "avatar", "avatars", MaxAvatarSize)
}

// UploadGroupImage handles group cover image uploads
func (h *UploadHandler) UploadGroupImage(c *fiber.Ctx) error {
	return h.saveImage(c, "image", "groups", MaxImageSize)
}

func (h *UploadHandler) saveImage(c *fiber.Ctx, field, subdir string, maxSize int64) error {
	file, err := c.FormFile(field)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "No file uploaded")
	}

	if file.Size > maxSize {
		return fail(c, fiber.StatusBadRequest,
			fmt.Sprintf("File size exceeds limit of %dMB", maxSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" || !strings.Contains(AllowedImageExts, ext) {
		return fail(c, fiber.StatusBadRequest, "Invalid image format. Allowed: jpg, jpeg, png, gif, webp")
	}

	uploadPath := filepath.Join(h.uploadDir, subdir)
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to create upload directory")
	}

	filename := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().Unix(), ext)
	if err := c.SaveFile(file, filepath.Join(uploadPath, filename)); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save file")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"url": fmt.Sprintf("/uploads/%s/%s", subdir, filename),
		},
	})
}

// GetFile serves uploaded files
func (h *UploadHandler) GetFile(c *fiber.Ctx) error {
	subdir := c.Params("type")
	filename := filepath.Base(c.Params("filename"))

	if subdir != "avatars" && subdir != "groups" {
		return fail(c, fiber.StatusBadRequest, "Invalid file type")
	}

	filePath := filepath.Join(h.uploadDir, subdir, filename)
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(c, fiber.StatusNotFound, "File not found")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to open file")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to get file info")
	}

	c.Set("Content-Type", contentTypeFor(strings.ToLower(filepath.Ext(filename))))
	c.Set("Content-Length", fmt.Sprintf("%d", info.Size()))

	if _, err := io.Copy(c.Response().BodyWriter(), file); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to send file")
	}
	return nil
}

// contentTypeFor returns a content type based on file extension
func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
