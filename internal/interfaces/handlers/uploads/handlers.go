package uploads

import (
	listsvc "villfinder-backend/internal/application/listings"
	uploadsvc "villfinder-backend/internal/application/uploads"
	"villfinder-backend/internal/middleware"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/pkg/response"
	"villfinder-backend/internal/pkg/validation"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service  *uploadsvc.Service
	Listings *listsvc.Service
}

type uploadRequest struct {
	FileName string `json:"file_name"`
}

// PhotoUploadURL POST /api/v1/places/:kind/:id/photos/upload-url, owner only.
// The client uploads to upload_url, then records public_url through POST .../photos.
func (h *Handlers) PhotoUploadURL(c *fiber.Ctx) error {
	prof, err := middleware.CurrentProfile(c)
	if err != nil {
		return response.FromError(c, err)
	}
	ref, err := validation.Target("kind", c.Params("kind"), "id", c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	var req uploadRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.FromError(c, apperrors.Validation("file_name", "file_name is required"))
	}

	owner, err := h.Listings.Owner(c.UserContext(), ref)
	if err != nil {
		return response.FromError(c, err)
	}
	if owner != prof.ProfileID {
		return response.FromError(c, apperrors.Permission("You can only add photos to your own listings"))
	}

	res, err := h.Service.GetSignedUploadURL(c.UserContext(), ref, req.FileName)
	if err != nil {
		if apperrors.IsValidation(err) {
			return response.FromError(c, err)
		}
		log.Error().Err(err).Str("target_kind", string(ref.Kind)).Uint("target_id", ref.ID).Msg("upload: failed to generate signed URL")
		return response.Error(c, "Failed to generate upload URL", fiber.StatusBadGateway, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}
