package httpapi

import (
	"net/http"
)

type seasonLeaderboardResponse struct {
	Season  int                   `json:"season"`
	Entries []leaderboardEntryDTO `json:"entries"`
}

type raceLeaderboardResponse struct {
	Race    raceDTO               `json:"race"`
	Entries []leaderboardEntryDTO `json:"entries"`
}

// SeasonLeaderboard returns the general classification for a season.
func (h *Handler) SeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeasonLeaderboard")
	defer span.End()

	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	board, err := h.leaderboardService.Season(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "season leaderboard failed", "season", season, "error", err)
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonLeaderboardResponse{
		Season:  board.Season,
		Entries: entriesToDTO(board.Entries),
	})
}

// RaceLeaderboard returns the standings of a single race. Teams that
// scored nothing are omitted.
func (h *Handler) RaceLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RaceLeaderboard")
	defer span.End()

	board, err := h.leaderboardService.Race(ctx, r.PathValue("raceID"))
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeSuccess(ctx, w, http.StatusOK, raceLeaderboardResponse{
		Race:    raceToDTO(board.Race),
		Entries: entriesToDTO(board.Entries),
	})
}
