package memory

import (
	"context"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
)

const SeedSeason = 2026

func SeedRiders() []rider.Rider {
	return []rider.Rider{
		{ID: "rdr-001", Name: "Milan Vandeputte", Sponsor: "Quickstep Omega", Nationality: "BE", Active: true, Price: 2400, Points: 310},
		{ID: "rdr-002", Name: "Sven Herregods", Sponsor: "Lotto Crelan", Nationality: "BE", Active: true, Price: 2150, Points: 280},
		{ID: "rdr-003", Name: "Tomas Verhulst", Sponsor: "Alpecin Premium", Nationality: "BE", Active: true, Price: 1900, Points: 205},
		{ID: "rdr-004", Name: "Joris Claes", Sponsor: "Quickstep Omega", Nationality: "BE", Active: true, Price: 1700, Points: 190},
		{ID: "rdr-005", Name: "Arne De Smet", Sponsor: "Jumbo Lease", Nationality: "NL", Active: true, Price: 1500, Points: 160},
		{ID: "rdr-006", Name: "Pieter Maes", Sponsor: "Lotto Crelan", Nationality: "BE", Active: true, Price: 1300, Points: 120},
		{ID: "rdr-007", Name: "Lander Goossens", Sponsor: "Alpecin Premium", Nationality: "BE", Active: true, Price: 1100, Points: 95},
		{ID: "rdr-008", Name: "Wout Peeters", Sponsor: "Intermarche Wanty", Nationality: "BE", Active: true, Price: 950, Points: 70},
		{ID: "rdr-009", Name: "Stijn Vermeulen", Sponsor: "Jumbo Lease", Nationality: "NL", Active: true, Price: 800, Points: 55},
		{ID: "rdr-010", Name: "Niels Wouters", Sponsor: "Intermarche Wanty", Nationality: "BE", Active: true, Price: 700, Points: 40},
		{ID: "rdr-011", Name: "Bram Hendrickx", Sponsor: "Soudal Roompot", Nationality: "BE", Active: true, Price: 600, Points: 30},
		{ID: "rdr-012", Name: "Jelle Martens", Sponsor: "Soudal Roompot", Nationality: "BE", Active: true, Price: 500, Points: 20},
		{ID: "rdr-013", Name: "Kasper Willems", Sponsor: "Lotto Crelan", Nationality: "BE", Active: true, Price: 450, Points: 10},
		{ID: "rdr-014", Name: "Ruben Declercq", Sponsor: "Jumbo Lease", Nationality: "NL", Active: true, Price: 400, Points: 5},
		{ID: "rdr-015", Name: "Maarten Segers", Sponsor: "Intermarche Wanty", Nationality: "BE", Active: false, Price: 350, Points: 0},
	}
}

func SeedRaces() []race.Race {
	return []race.Race{
		{ID: "race-omloop", Name: "Omloop Het Nieuwsblad", Date: time.Date(2026, 2, 28, 11, 0, 0, 0, time.UTC)},
		{ID: "race-kbk", Name: "Kuurne-Brussel-Kuurne", Date: time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC)},
		{ID: "race-e3", Name: "E3 Saxo Classic", Date: time.Date(2026, 3, 27, 12, 0, 0, 0, time.UTC)},
		{ID: "race-gw", Name: "Gent-Wevelgem", Date: time.Date(2026, 3, 29, 11, 0, 0, 0, time.UTC)},
		{ID: "race-rvv", Name: "Ronde van Vlaanderen", Date: time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)},
		{ID: "race-pr", Name: "Paris-Roubaix", Date: time.Date(2026, 4, 12, 11, 0, 0, 0, time.UTC)},
	}
}

// SeedResults covers the opening weekend so dev mode has a scored race.
func SeedResults() []race.Result {
	return []race.Result{
		{RaceID: "race-omloop", RiderID: "rdr-001", Rank: 1, PointsAwarded: 100},
		{RaceID: "race-omloop", RiderID: "rdr-003", Rank: 2, PointsAwarded: 80},
		{RaceID: "race-omloop", RiderID: "rdr-002", Rank: 3, PointsAwarded: 65},
		{RaceID: "race-omloop", RiderID: "rdr-005", Rank: 4, PointsAwarded: 55},
		{RaceID: "race-omloop", RiderID: "rdr-008", Rank: 5, PointsAwarded: 45},
	}
}

// SeedAccessCodes are unredeemed dev-mode login codes.
func SeedAccessCodes() []identity.AccessCode {
	createdAt := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	return []identity.AccessCode{
		{ID: "code-001", Code: "MB26-DEVAAA", Active: true, CreatedAt: createdAt},
		{ID: "code-002", Code: "MB26-DEVBBB", Active: true, CreatedAt: createdAt},
		{ID: "code-003", Code: "MB26-DEVCCC", Active: true, CreatedAt: createdAt},
		{ID: "code-004", Code: "MB26-RETIRED", Active: false, CreatedAt: createdAt},
	}
}

// SeedRepositories builds fully loaded dev-mode stores.
func SeedRepositories() (*RiderRepository, *RaceRepository, *TeamRepository, *CodeRepository, *ProfileRepository) {
	riders := NewRiderRepository()
	for _, row := range SeedRiders() {
		riders.Upsert(SeedSeason, row)
	}

	nameByID := make(map[string]rider.Rider)
	for _, row := range SeedRiders() {
		nameByID[row.ID] = row
	}

	races := NewRaceRepository()
	for _, row := range SeedRaces() {
		races.AddRace(row)
	}
	for _, result := range SeedResults() {
		row := nameByID[result.RiderID]
		races.AddResult(result, row.Name, row.Sponsor)
	}

	teams := NewTeamRepository()
	profiles := NewProfileRepository()
	codes := NewCodeRepository(profiles)
	for _, code := range SeedAccessCodes() {
		_ = codes.Create(context.Background(), code)
	}

	return riders, races, teams, codes, profiles
}
