package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/usecase"
)

// SearchRiders lists the season's active riders, price descending, with an
// optional name or sponsor filter.
func (h *Handler) SearchRiders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchRiders")
	defer span.End()

	season, err := seasonFromPath(r)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw))

			return
		}
	}

	riders, err := h.riderService.Search(ctx, season, r.URL.Query().Get("query"), limit)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	out := make([]riderDTO, 0, len(riders))
	for _, row := range riders {
		out = append(out, riderToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
