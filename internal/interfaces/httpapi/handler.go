package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/standings"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/usecase"
)

type Handler struct {
	exchangeService    *usecase.ExchangeService
	teamService        *usecase.TeamService
	leaderboardService *usecase.LeaderboardService
	raceService        *usecase.RaceService
	riderService       *usecase.RiderService
	adminService       *usecase.AdminService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	exchangeService *usecase.ExchangeService,
	teamService *usecase.TeamService,
	leaderboardService *usecase.LeaderboardService,
	raceService *usecase.RaceService,
	riderService *usecase.RiderService,
	adminService *usecase.AdminService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		exchangeService:    exchangeService,
		teamService:        teamService,
		leaderboardService: leaderboardService,
		raceService:        raceService,
		riderService:       riderService,
		adminService:       adminService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeBody(ctx context.Context, r *http.Request, into any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, into)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func seasonFromPath(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("season"))
	season, err := strconv.Atoi(raw)
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("%w: invalid season %q", usecase.ErrInvalidInput, raw)
	}

	return season, nil
}

type userDTO struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type riderDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sponsor     string `json:"sponsor"`
	Nationality string `json:"nationality"`
	Price       int64  `json:"price"`
	Points      int64  `json:"points"`
}

func riderToDTO(row rider.Rider) riderDTO {
	return riderDTO{
		ID:          row.ID,
		Name:        row.Name,
		Sponsor:     row.Sponsor,
		Nationality: row.Nationality,
		Price:       row.Price,
		Points:      row.Points,
	}
}

type raceDTO struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

func raceToDTO(row race.Race) raceDTO {
	return raceDTO{ID: row.ID, Name: row.Name, Date: row.Date}
}

type raceResultDTO struct {
	Rank      int    `json:"rank"`
	Points    int64  `json:"points"`
	RiderName string `json:"riderName"`
	Sponsor   string `json:"sponsor"`
}

type raceDetailDTO struct {
	Race    raceDTO         `json:"race"`
	Results []raceResultDTO `json:"results"`
}

func raceDetailToDTO(detail usecase.RaceDetail) raceDetailDTO {
	results := make([]raceResultDTO, 0, len(detail.Results))
	for _, row := range detail.Results {
		results = append(results, raceResultDTO{
			Rank:      row.Rank,
			Points:    row.PointsAwarded,
			RiderName: row.RiderName,
			Sponsor:   row.Sponsor,
		})
	}

	return raceDetailDTO{Race: raceToDTO(detail.Race), Results: results}
}

type teamDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	OwnerName string     `json:"ownerName,omitempty"`
	Season    int        `json:"season"`
	TotalCost int64      `json:"totalCost"`
	Points    int64      `json:"points"`
	Riders    []riderDTO `json:"riders"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func teamViewToDTO(view usecase.TeamView) teamDTO {
	riders := make([]riderDTO, 0, len(view.Riders))
	for _, row := range view.Riders {
		riders = append(riders, riderToDTO(row))
	}

	return teamDTO{
		ID:        view.Team.ID,
		Name:      view.Team.Name,
		OwnerName: view.Team.OwnerName,
		Season:    view.Team.Season,
		TotalCost: view.Team.TotalCost,
		Points:    view.Team.Points,
		Riders:    riders,
		CreatedAt: view.Team.CreatedAt,
		UpdatedAt: view.Team.UpdatedAt,
	}
}

type leaderboardEntryDTO struct {
	Rank      int    `json:"rank"`
	TeamID    string `json:"teamId"`
	TeamName  string `json:"teamName"`
	OwnerName string `json:"ownerName,omitempty"`
	Points    int64  `json:"points"`
}

func entriesToDTO(entries []standings.Entry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for i, entry := range entries {
		out = append(out, leaderboardEntryDTO{
			Rank:      i + 1,
			TeamID:    entry.TeamID,
			TeamName:  entry.TeamName,
			OwnerName: entry.OwnerName,
			Points:    entry.Points,
		})
	}

	return out
}
