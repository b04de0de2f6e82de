package screeps

import (
	"context"
	"net/http"
	"net/url"
)

const DefaultMode = "world"

const seasonLayout = "2006-01"

func (s *Session) Seasons(ctx context.Context) ([]SeasonData, error) {
	const path = "/api/leaderboard/seasons"
	body, ok, err := s.call(ctx, http.MethodGet, path, nil, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeEnvelope[[]SeasonData](path, "seasons", body)
}

// UserSeason returns one user's standing in season ("YYYY-MM"). An empty
// season means the current month on the local clock, an empty mode means
// DefaultMode.
func (s *Session) UserSeason(ctx context.Context, username, season, mode string) (*UserSeasonData, error) {
	const path = "/api/leaderboard/find"
	if season == "" {
		season = s.now().Format(seasonLayout)
	}
	query := url.Values{
		"mode":     {modeOrDefault(mode)},
		"season":   {season},
		"username": {username},
	}
	body, ok, err := s.call(ctx, http.MethodGet, path, query, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeRoot[UserSeasonData](path, body)
}

// UserSeasons returns the standing of a user in every season played.
func (s *Session) UserSeasons(ctx context.Context, username, mode string) ([]UserSeasonData, error) {
	const path = "/api/leaderboard/find"
	query := url.Values{
		"mode":     {modeOrDefault(mode)},
		"username": {username},
	}
	body, ok, err := s.call(ctx, http.MethodGet, path, query, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeEnvelope[[]UserSeasonData](path, "list", body)
}

func modeOrDefault(mode string) string {
	if mode == "" {
		return DefaultMode
	}
	return mode
}
