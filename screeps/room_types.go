package screeps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Interval is the aggregation window of room statistics, in minutes.
type Interval int

const (
	Interval8    Interval = 8
	Interval180  Interval = 180
	Interval1440 Interval = 1440
)

func (i Interval) valid() bool {
	return i == Interval8 || i == Interval180 || i == Interval1440
}

type Metric string

const (
	MetricEnergyHarvested    Metric = "energyHarvested"
	MetricEnergyConstruction Metric = "energyConstruction"
	MetricEnergyCreeps       Metric = "energyCreeps"
	MetricEnergyControl      Metric = "energyControl"
	MetricCreepsProduced     Metric = "creepsProduced"
	MetricCreepsLost         Metric = "creepsLost"
	MetricPowerProcessed     Metric = "powerProcessed"
	MetricEnergy             Metric = "energy"
	MetricPower              Metric = "power"
)

const (
	TerrainPlain = "plain"
	TerrainWall  = "wall"
	TerrainSwamp = "swamp"
)

// RoomData is the room overview for one interval. Terrain is not part of the
// overview reply; RoomOverview attaches it from a second request and leaves
// it nil when that request fails.
type RoomData struct {
	OK       int               `json:"ok"`
	Owner    *RoomOwner        `json:"owner"`
	Stats    *RoomStats        `json:"stats"`
	StatsMax RoomMaxStats      `json:"statsMax"`
	Totals   RoomTotals        `json:"totals"`
	Terrain  []RoomTerrainTile `json:"-"`
}

func (r *RoomData) UnmarshalJSON(b []byte) error {
	type plain RoomData
	var p plain
	var req struct {
		OK *int `json:"ok" validate:"required"`
	}
	if err := decodeChecked(b, "room overview", &p, &req); err != nil {
		return err
	}
	*r = RoomData(p)
	return nil
}

// RoomOwner is the partial account embedded in a room overview.
type RoomOwner struct {
	Username string     `json:"username"`
	Badge    *BadgeData `json:"badge"`
}

func (o *RoomOwner) UnmarshalJSON(b []byte) error {
	type plain RoomOwner
	var p plain
	var req struct {
		Username *string `json:"username" validate:"required"`
	}
	if err := decodeChecked(b, "room owner", &p, &req); err != nil {
		return err
	}
	*o = RoomOwner(p)
	return nil
}

// RoomStats holds one series per metric; a nil series was not reported.
type RoomStats struct {
	EnergyHarvested    []StatPoint `json:"energyHarvested"`
	EnergyConstruction []StatPoint `json:"energyConstruction"`
	EnergyCreeps       []StatPoint `json:"energyCreeps"`
	EnergyControl      []StatPoint `json:"energyControl"`
	CreepsProduced     []StatPoint `json:"creepsProduced"`
	CreepsLost         []StatPoint `json:"creepsLost"`
	PowerProcessed     []StatPoint `json:"powerProcessed"`
}

// StatPoint is one sample of a series. The server has used both
// {"endTime":T,"value":V} and {"key":K,"value":V} objects as well as [K,V]
// pairs, with numbers or numeric strings.
type StatPoint struct {
	Key   int64
	Value int64
}

func (p *StatPoint) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("stat point: want 2 elements, got %d", len(pair))
		}
		return p.set(pair[0], pair[1])
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	key, ok := firstOf(obj, "endTime", "key", "Key")
	if !ok {
		return fmt.Errorf("stat point: missing required field endTime")
	}
	value, ok := firstOf(obj, "value", "Value")
	if !ok {
		return fmt.Errorf("stat point: missing required field value")
	}
	return p.set(key, value)
}

func (p *StatPoint) set(key, value json.RawMessage) error {
	k, err := parseWhole(key)
	if err != nil {
		return fmt.Errorf("stat point key: %w", err)
	}
	v, err := parseWhole(value)
	if err != nil {
		return fmt.Errorf("stat point value: %w", err)
	}
	*p = StatPoint{Key: k, Value: v}
	return nil
}

func firstOf(obj map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// parseWhole reads a base-10 integer given as a JSON number or a numeric
// string. Fractions, exponents and other bases are rejected.
func parseWhole(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a whole number", raw)
	}
	return v, nil
}

// RoomMaxStats maps "<metric><interval>" keys such as "energyHarvested180"
// to the best value seen in that window.
type RoomMaxStats map[string]int64

func (m RoomMaxStats) Get(metric Metric, interval Interval) (int64, bool) {
	v, ok := m[fmt.Sprintf("%s%d", metric, interval)]
	return v, ok
}

func (m *RoomMaxStats) UnmarshalJSON(b []byte) error {
	out, err := decodeScalars(b)
	if err != nil {
		return fmt.Errorf("statsMax: %w", err)
	}
	*m = out
	return nil
}

// RoomTotals maps a metric to its total over the interval.
type RoomTotals map[string]int64

func (t RoomTotals) Get(metric Metric) (int64, bool) {
	v, ok := t[string(metric)]
	return v, ok
}

func (t *RoomTotals) UnmarshalJSON(b []byte) error {
	out, err := decodeScalars(b)
	if err != nil {
		return fmt.Errorf("totals: %w", err)
	}
	*t = out
	return nil
}

func decodeScalars(b []byte) (map[string]int64, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		if isNull(v) {
			continue
		}
		n, err := parseWhole(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}

type RoomTerrainTile struct {
	Room string `json:"room"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

func (t *RoomTerrainTile) UnmarshalJSON(b []byte) error {
	type plain RoomTerrainTile
	var p plain
	var req struct {
		Room *string `json:"room" validate:"required"`
		X    *int    `json:"x" validate:"required"`
		Y    *int    `json:"y" validate:"required"`
		Type *string `json:"type" validate:"required"`
	}
	if err := decodeChecked(b, "terrain", &p, &req); err != nil {
		return err
	}
	*t = RoomTerrainTile(p)
	return nil
}
