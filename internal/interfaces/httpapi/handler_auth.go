package httpapi

import (
	"fmt"
	"net/http"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/usecase"
)

type exchangeRequest struct {
	AccessCode string `json:"accessCode" validate:"required"`
}

type exchangeResponse struct {
	Token     string  `json:"token"`
	User      userDTO `json:"user"`
	IsNewUser bool    `json:"isNewUser"`
}

// ExchangeCode trades an access code for a bearer token. Codes are the only
// way in: there is no signup and no password.
func (h *Handler) ExchangeCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExchangeCode")
	defer span.End()

	var req exchangeRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid exchange request", "error", err)
		writeError(ctx, w, err)

		return
	}

	result, err := h.exchangeService.Exchange(ctx, req.AccessCode)
	if err != nil {
		h.logger.WarnContext(ctx, "exchange rejected", "error", err)
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, exchangeResponse{
		Token: result.Token,
		User: userDTO{
			ID:              result.UserID,
			DisplayName:     result.DisplayName,
			ProfileImageURL: result.ProfileImageURL,
		},
		IsNewUser: result.IsNewUser,
	})
}

// Me returns the profile of the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))

		return
	}

	profile, err := h.exchangeService.Profile(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "profile lookup failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, userDTO{
		ID:              profile.ID,
		DisplayName:     profile.DisplayName,
		ProfileImageURL: profile.ProfileImageURL,
	})
}
