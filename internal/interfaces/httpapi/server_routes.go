package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/exchange", handler.ExchangeCode)
	mux.HandleFunc("GET /v1/seasons/{season}/riders", handler.SearchRiders)
	mux.HandleFunc("GET /v1/seasons/{season}/races", handler.ListRaces)
	mux.HandleFunc("GET /v1/seasons/{season}/leaderboard", handler.SeasonLeaderboard)
	mux.HandleFunc("GET /v1/races/latest", handler.LatestRace)
	mux.HandleFunc("GET /v1/races/next", handler.NextRace)
	mux.HandleFunc("GET /v1/races/{raceID}", handler.GetRace)
	mux.HandleFunc("GET /v1/races/{raceID}/leaderboard", handler.RaceLeaderboard)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
	mux.Handle("GET /v1/seasons/{season}/teams/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("PUT /v1/seasons/{season}/teams/me", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyTeam)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminPassword string) {
	mux.Handle("GET /v1/admin/codes", RequireAdminSecret(adminPassword, http.HandlerFunc(handler.ListCodes)))
	mux.Handle("POST /v1/admin/codes", RequireAdminSecret(adminPassword, http.HandlerFunc(handler.GenerateCodes)))
	mux.Handle("PUT /v1/admin/users/{userID}", RequireAdminSecret(adminPassword, http.HandlerFunc(handler.RenameProfile)))
}
