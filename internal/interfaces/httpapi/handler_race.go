package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/usecase"
)

const defaultResultLimit = 10

// ListRaces returns the season calendar ordered by date.
func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaces")
	defer span.End()

	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	races, err := h.raceService.ListSeason(ctx, season)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	out := make([]raceDTO, 0, len(races))
	for _, row := range races {
		out = append(out, raceToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// LatestRace returns the most recently run race with its top results.
func (h *Handler) LatestRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LatestRace")
	defer span.End()

	limit, err := resultLimitFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	detail, err := h.raceService.Latest(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceDetailToDTO(detail))
}

// NextRace returns the first race still ahead of now.
func (h *Handler) NextRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NextRace")
	defer span.End()

	row, err := h.raceService.Next(ctx)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceToDTO(row))
}

// GetRace returns one race with its full result list.
func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	detail, err := h.raceService.Get(ctx, r.PathValue("raceID"), 0)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceDetailToDTO(detail))
}

func resultLimitFromQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return defaultResultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: invalid result limit %q", usecase.ErrInvalidInput, raw)
	}

	return limit, nil
}
