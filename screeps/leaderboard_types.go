package screeps

import "time"

type SeasonData struct {
	ID   string    `json:"_id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

func (s *SeasonData) UnmarshalJSON(b []byte) error {
	type plain SeasonData
	var p plain
	var req struct {
		ID   *string    `json:"_id" validate:"required"`
		Name *string    `json:"name" validate:"required"`
		Date *time.Time `json:"date" validate:"required"`
	}
	if err := decodeChecked(b, "season", &p, &req); err != nil {
		return err
	}
	*s = SeasonData(p)
	return nil
}

// UserSeasonData is one user's standing in one season.
type UserSeasonData struct {
	ID     string `json:"_id"`
	Season string `json:"season"`
	UserID string `json:"user"`
	Score  int64  `json:"score"`
	Rank   int    `json:"rank"`
}

func (u *UserSeasonData) UnmarshalJSON(b []byte) error {
	type plain UserSeasonData
	var p plain
	var req struct {
		ID     *string `json:"_id" validate:"required"`
		Season *string `json:"season" validate:"required"`
		UserID *string `json:"user" validate:"required"`
		Score  *int64  `json:"score" validate:"required"`
		Rank   *int    `json:"rank" validate:"required"`
	}
	if err := decodeChecked(b, "user season", &p, &req); err != nil {
		return err
	}
	*u = UserSeasonData(p)
	return nil
}
