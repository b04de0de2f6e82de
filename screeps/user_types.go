package screeps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UserData is a player account. Only ID and Username are guaranteed; the
// private fields are filled for the signed-in account alone.
type UserData struct {
	ID             string       `json:"_id"`
	Username       string       `json:"username"`
	Email          *string      `json:"email"`
	CPU            *int         `json:"cpu"`
	Credits        *float64     `json:"credits"`
	GCL            *uint64      `json:"gcl"`
	Badge          *BadgeData   `json:"badge"`
	NotifyPrefs    *NotifyPrefs `json:"notifyPrefs"`
	LastChargeTime *time.Time   `json:"lastChargeTime"`
	LastTweetTime  *time.Time   `json:"lastTweetTime"`
	Github         *GithubData  `json:"github"`
	Steam          *SteamData   `json:"steam"`
	Twitter        *TwitterData `json:"twitter"`
}

func (u *UserData) UnmarshalJSON(b []byte) error {
	type plain UserData
	var p plain
	var req struct {
		ID       *string `json:"_id" validate:"required"`
		Username *string `json:"username" validate:"required"`
	}
	if err := decodeChecked(b, "user", &p, &req); err != nil {
		return err
	}
	*u = UserData(p)
	return nil
}

type NotifyPrefs struct {
	SendOnline         *bool   `json:"sendOnline"`
	ErrorsInterval     *uint64 `json:"errorsInterval"`
	DisabledOnMessages *bool   `json:"disabledOnMessages"`
	Disabled           *bool   `json:"disabled"`
	Interval           *uint64 `json:"interval"`
}

// BadgeData describes a player badge. Type is either a preset number or a
// pair of custom SVG paths.
type BadgeData struct {
	Type   BadgeType `json:"type"`
	Color1 string    `json:"color1"`
	Color2 string    `json:"color2"`
	Color3 string    `json:"color3"`
	Param  int       `json:"param"`
	Flip   bool      `json:"flip"`
}

type BadgeType struct {
	Preset *int
	Custom *CustomBadge
}

type CustomBadge struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

func (t *BadgeType) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = BadgeType{}
		return nil
	case len(b) > 0 && b[0] == '{':
		var custom CustomBadge
		if err := json.Unmarshal(b, &custom); err != nil {
			return err
		}
		*t = BadgeType{Custom: &custom}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("badge type: %w", err)
	}
	*t = BadgeType{Preset: &n}
	return nil
}

func (t BadgeType) MarshalJSON() ([]byte, error) {
	switch {
	case t.Custom != nil:
		return json.Marshal(t.Custom)
	case t.Preset != nil:
		return json.Marshal(*t.Preset)
	}
	return []byte("null"), nil
}

type GithubData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SteamData carries the linked Steam account. The server sends the id as
// either a JSON number or a numeric string.
type SteamData struct {
	ID          uint64  `json:"id"`
	DisplayName *string `json:"displayName"`
}

func (s *SteamData) UnmarshalJSON(b []byte) error {
	var w struct {
		ID          json.Number `json:"id"`
		DisplayName *string     `json:"displayName"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("steam: missing required field id")
	}
	id, err := strconv.ParseUint(w.ID.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("steam id: %s is not a whole number", w.ID)
	}
	*s = SteamData{ID: id, DisplayName: w.DisplayName}
	return nil
}

type TwitterData struct {
	Username       string `json:"username"`
	FollowersCount int    `json:"followers_count"`
}
