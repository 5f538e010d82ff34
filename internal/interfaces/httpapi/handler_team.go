package httpapi

import (
	"fmt"
	"net/http"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/usecase"
)

type saveTeamRequest struct {
	Name     string   `json:"name" validate:"required"`
	RiderIDs []string `json:"riderIds" validate:"required,min=1"`
}

// GetMyTeam returns the caller's roster for the season in the path.
func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))

		return
	}

	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	view, err := h.teamService.GetMyTeam(ctx, principal.UserID, season)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamViewToDTO(view))
}

// SaveMyTeam creates or replaces the caller's roster for the season. The
// rider list is the full desired composition, not a diff.
func (h *Handler) SaveMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))

		return
	}

	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	var req saveTeamRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid team payload", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)

		return
	}

	team, err := h.teamService.SaveTeam(ctx, usecase.SaveTeamInput{
		UserID:   principal.UserID,
		Season:   season,
		Name:     req.Name,
		RiderIDs: req.RiderIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "team save rejected", "user_id", principal.UserID, "season", season, "error", err)
		writeError(ctx, w, err)

		return
	}

	view, err := h.teamService.GetTeamByID(ctx, team.ID)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamViewToDTO(view))
}

// GetTeam returns any team by id, riders included. Public so leaderboard
// rows can link through to team pages.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	view, err := h.teamService.GetTeamByID(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamViewToDTO(view))
}
