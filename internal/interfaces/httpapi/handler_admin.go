package httpapi

import (
	"net/http"
	"time"
)

type generateCodesRequest struct {
	Count  int    `json:"count" validate:"required,min=1,max=500"`
	Prefix string `json:"prefix,omitempty"`
}

type renameProfileRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
}

type accessCodeDTO struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	User      *userDTO  `json:"user,omitempty"`
}

type generatedCodeDTO struct {
	Code        string `json:"code"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// ListCodes returns every access code with its linked profile, newest first.
func (h *Handler) ListCodes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCodes")
	defer span.End()

	codes, err := h.adminService.ListCodes(ctx)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	out := make([]accessCodeDTO, 0, len(codes))
	for _, row := range codes {
		dto := accessCodeDTO{
			ID:        row.ID,
			Code:      row.Code,
			Active:    row.Active,
			CreatedAt: row.CreatedAt,
		}
		if row.Profile != nil {
			dto.User = &userDTO{
				ID:              row.Profile.ID,
				DisplayName:     row.Profile.DisplayName,
				ProfileImageURL: row.Profile.ProfileImageURL,
			}
		}
		out = append(out, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// GenerateCodes mints a batch of fresh access codes, each pre-linked to a
// placeholder profile.
func (h *Handler) GenerateCodes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateCodes")
	defer span.End()

	var req generateCodesRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid generate request", "error", err)
		writeError(ctx, w, err)

		return
	}

	generated, err := h.adminService.GenerateCodes(ctx, req.Count, req.Prefix)
	if err != nil {
		h.logger.ErrorContext(ctx, "code generation failed", "count", req.Count, "error", err)
		writeError(ctx, w, err)

		return
	}

	out := make([]generatedCodeDTO, 0, len(generated))
	for _, row := range generated {
		out = append(out, generatedCodeDTO{
			Code:        row.Code,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
		})
	}

	writeSuccess(ctx, w, http.StatusCreated, out)
}

// RenameProfile sets a user's display name in place of the placeholder.
func (h *Handler) RenameProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenameProfile")
	defer span.End()

	var req renameProfileRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)

		return
	}

	profile, err := h.adminService.RenameProfile(ctx, r.PathValue("userID"), req.DisplayName)
	if err != nil {
		h.logger.WarnContext(ctx, "profile rename rejected", "user_id", r.PathValue("userID"), "error", err)
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, userDTO{
		ID:              profile.ID,
		DisplayName:     profile.DisplayName,
		ProfileImageURL: profile.ProfileImageURL,
	})
}
