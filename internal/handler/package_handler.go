package handler

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/service"
)

// PackageHandler handles travel package management
type PackageHandler struct {
	sessions    *service.SessionManager
	images      domain.FileRepository
	maxUploadMB int64
}

// NewPackageHandler creates a new package handler. images may be nil, in
// which case uploads are refused.
func NewPackageHandler(sessions *service.SessionManager, images domain.FileRepository, maxUploadMB int64) *PackageHandler {
	return &PackageHandler{
		sessions:    sessions,
		images:      images,
		maxUploadMB: maxUploadMB,
	}
}

// ListPackages handles GET /v1/admin/packages
func (h *PackageHandler) ListPackages(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"packages":     ws.Snapshot().Packages,
		"destinations": domain.Destinations,
	})
}

// GetPackage handles GET /v1/admin/packages/:id
func (h *PackageHandler) GetPackage(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	pkg, err := ws.Package(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pkg)
}

// CreatePackage handles POST /v1/admin/packages
func (h *PackageHandler) CreatePackage(c *fiber.Ctx) error {
	var draft domain.PackageDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}

	pkg, err := ws.CreatePackage(c.UserContext(), &draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

// UpdatePackage handles PATCH /v1/admin/packages/:id
func (h *PackageHandler) UpdatePackage(c *fiber.Ctx) error {
	var patch domain.PackagePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}

	pkg, err := ws.UpdatePackage(c.UserContext(), c.Params("id"), &patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pkg)
}

// DeletePackage handles DELETE /v1/admin/packages/:id
func (h *PackageHandler) DeletePackage(c *fiber.Ctx) error {
	ws, err := workspaceFor(c, h.sessions)
	if err != nil {
		return respondError(c, err)
	}
	if err := ws.DeletePackage(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage handles POST /v1/admin/packages/images. The returned URL is
// meant to be placed in a package draft's images list.
func (h *PackageHandler) UploadImage(c *fiber.Ctx) error {
	if h.images == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "image storage is not configured",
		})
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing 'image' field in form data",
		})
	}

	if maxBytes := h.maxUploadMB * 1024 * 1024; imageFile.Size > maxBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("file size exceeds maximum of %dMB", h.maxUploadMB),
		})
	}

	contentType := imageFile.Header.Get(fiber.HeaderContentType)
	ext, ok := domain.ImageContentTypes[contentType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file type, only JPEG, PNG and WebP images are allowed",
		})
	}

	fileHandle, err := imageFile.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	key := "packages/" + ulid.Make().String() + ext
	url, err := h.images.Upload(c.UserContext(), data, key, contentType)
	if err != nil {
		return respondError(c, fmt.Errorf("failed to upload image: %w", err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
