package screeps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

const overviewBody = `{
	"ok":1,
	"owner":{"username":"bob","badge":{"type":12,"color1":"#111","color2":"#222","color3":"#333","param":0,"flip":false}},
	"stats":{
		"energyHarvested":[{"value":10,"endTime":100},{"value":0,"endTime":101}],
		"creepsLost":[{"key":"100","value":"2"}],
		"powerProcessed":[[100,5]]
	},
	"statsMax":{"energy1440":900,"energyHarvested180":"30","power8":0},
	"totals":{"energyHarvested":10,"creepsProduced":0}
}`

func TestRoomOverviewMergesTerrain(t *testing.T) {
	s, srv := newTestSession(t)
	srv.Handle(http.MethodGet, "/api/game/room-overview", http.StatusOK, overviewBody)
	srv.Handle(http.MethodGet, "/api/game/room-terrain", http.StatusOK, `{"ok":1,"terrain":[
		{"room":"W1N1","x":0,"y":0,"type":"wall"},
		{"room":"W1N1","x":3,"y":0,"type":"swamp"}
	]}`)

	room, err := s.RoomOverview(testContext(t), "W1N1", "shard0", 0)
	if err != nil {
		t.Fatalf("RoomOverview() error = %v", err)
	}
	overviewReq, _ := srv.Last("/api/game/room-overview")
	if q := overviewReq.Query; q.Get("interval") != "180" || q.Get("shard") != "shard0" || q.Get("room") != "W1N1" {
		t.Fatalf("unexpected overview query: %v", q)
	}
	terrainReq, _ := srv.Last("/api/game/room-terrain")
	if q := terrainReq.Query; q.Get("room") != "W1N1" || q.Get("shard") != "shard0" {
		t.Fatalf("unexpected terrain query: %v", q)
	}
	reqs := srv.Requests()
	if len(reqs) != 2 || reqs[0].Path != "/api/game/room-overview" || reqs[1].Path != "/api/game/room-terrain" {
		t.Fatalf("unexpected request order: %+v", reqs)
	}

	if room.OK != 1 || room.Owner == nil || room.Owner.Username != "bob" {
		t.Fatalf("unexpected overview: %+v", room)
	}
	if room.Owner.Badge == nil || room.Owner.Badge.Type.Preset == nil || *room.Owner.Badge.Type.Preset != 12 {
		t.Fatalf("unexpected owner badge: %+v", room.Owner.Badge)
	}
	if len(room.Terrain) != 2 || room.Terrain[1] != (RoomTerrainTile{Room: "W1N1", X: 3, Y: 0, Type: TerrainSwamp}) {
		t.Fatalf("unexpected terrain: %+v", room.Terrain)
	}
	stats := room.Stats
	if stats == nil || len(stats.EnergyHarvested) != 2 || stats.EnergyHarvested[0] != (StatPoint{Key: 100, Value: 10}) {
		t.Fatalf("unexpected energyHarvested: %+v", stats)
	}
	if stats.CreepsLost[0] != (StatPoint{Key: 100, Value: 2}) || stats.PowerProcessed[0] != (StatPoint{Key: 100, Value: 5}) {
		t.Fatalf("unexpected heterogeneous points: %+v %+v", stats.CreepsLost, stats.PowerProcessed)
	}
	if stats.EnergyCreeps != nil {
		t.Fatalf("missing series should be nil, got %+v", stats.EnergyCreeps)
	}
	if v, ok := room.StatsMax.Get(MetricEnergyHarvested, Interval180); !ok || v != 30 {
		t.Fatalf("statsMax energyHarvested180 = %d, %v", v, ok)
	}
	if v, ok := room.StatsMax.Get(MetricPower, Interval8); !ok || v != 0 {
		t.Fatalf("statsMax power8 = %d, %v", v, ok)
	}
	if _, ok := room.StatsMax.Get(MetricCreepsLost, Interval8); ok {
		t.Fatal("absent statsMax key reported present")
	}
	if v, ok := room.Totals.Get(MetricCreepsProduced); !ok || v != 0 {
		t.Fatalf("totals creepsProduced = %d, %v", v, ok)
	}
}

func TestRoomOverviewTerrainRefusedLeavesTerrainNil(t *testing.T) {
	s, srv := newTestSession(t)
	srv.Handle(http.MethodGet, "/api/game/room-overview", http.StatusOK, overviewBody)
	srv.Handle(http.MethodGet, "/api/game/room-terrain", http.StatusNotFound, `{"error":"invalid room"}`)
	before := metricTerrainMissingTotal.Value()

	room, err := s.RoomOverview(testContext(t), "W1N1", "shard0", Interval1440)
	if err != nil {
		t.Fatalf("RoomOverview() error = %v", err)
	}
	if room == nil || room.Terrain != nil {
		t.Fatalf("unexpected room: %+v", room)
	}
	if room.OK != 1 || room.Owner == nil || room.Stats == nil || room.StatsMax == nil || room.Totals == nil {
		t.Fatalf("overview fields missing: %+v", room)
	}
	if got := metricTerrainMissingTotal.Value(); got != before+1 {
		t.Fatalf("screeps_overview_terrain_missing_total = %d, want %d", got, before+1)
	}
}

func TestRoomOverviewTerrainUnreachableLeavesTerrainNil(t *testing.T) {
	s := newScriptedSession(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/api/game/room-terrain" {
			return nil, errors.New("connection reset by peer")
		}
		return jsonResponse(req, http.StatusOK, overviewBody), nil
	})

	room, err := s.RoomOverview(testContext(t), "W1N1", "shard0", 0)
	if err != nil {
		t.Fatalf("RoomOverview() error = %v", err)
	}
	if room == nil || room.OK != 1 || room.Terrain != nil {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestRoomOverviewTerrainDecodeErrorFails(t *testing.T) {
	s, srv := newTestSession(t)
	srv.Handle(http.MethodGet, "/api/game/room-overview", http.StatusOK, overviewBody)
	srv.Handle(http.MethodGet, "/api/game/room-terrain", http.StatusOK, `{"terrain":[{"room":"W1N1"}]}`)

	room, err := s.RoomOverview(testContext(t), "W1N1", "shard0", 0)
	var de *DecodeError
	if !errors.As(err, &de) || de.Path != "/api/game/room-terrain" {
		t.Fatalf("err = %v, want terrain DecodeError", err)
	}
	if room != nil {
		t.Fatalf("room = %+v, want nil", room)
	}
}

func TestRoomOverviewCancelledDuringTerrain(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	s := newScriptedSession(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/api/game/room-terrain" {
			cancel()
			return nil, context.Canceled
		}
		return jsonResponse(req, http.StatusOK, overviewBody), nil
	})

	room, err := s.RoomOverview(ctx, "W1N1", "shard0", 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if room != nil {
		t.Fatalf("room = %+v, want nil", room)
	}
}

func TestRoomOverviewFailureSkipsTerrain(t *testing.T) {
	s, srv := newTestSession(t)
	srv.Handle(http.MethodGet, "/api/game/room-overview", http.StatusForbidden, `{"error":"unauthorized"}`)
	srv.Handle(http.MethodGet, "/api/game/room-terrain", http.StatusOK, `{"terrain":[]}`)

	room, err := s.RoomOverview(testContext(t), "W1N1", "shard0", Interval8)
	if err != nil || room != nil {
		t.Fatalf("RoomOverview() = %+v, %v, want nil, nil", room, err)
	}
	if srv.Hits("/api/game/room-terrain") != 0 {
		t.Fatal("terrain requested after overview failure")
	}
}

func TestRoomOverviewMalformedIsDecodeError(t *testing.T) {
	s, srv := newTestSession(t)
	srv.Handle(http.MethodGet, "/api/game/room-overview", http.StatusOK, `{"owner":null}`)

	_, err := s.RoomOverview(testContext(t), "W1N1", "shard0", 0)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
	if srv.Hits("/api/game/room-terrain") != 0 {
		t.Fatal("terrain requested after decode failure")
	}
}

func TestRoomOverviewRejectsInterval(t *testing.T) {
	s, calls := newOfflineSession(t)

	if _, err := s.RoomOverview(testContext(t), "W1N1", "shard0", 60); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("err = %v, want ErrInvalidInterval", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("transport called %d times", calls.Load())
	}
}

func TestRoomTerrainKeepsServerOrder(t *testing.T) {
	s, srv := newTestSession(t)
	srv.Handle(http.MethodGet, "/api/game/room-terrain", http.StatusOK, `{"terrain":[
		{"room":"E5S5","x":9,"y":9,"type":"swamp"},
		{"room":"E5S5","x":0,"y":1,"type":"wall"}
	]}`)

	tiles, err := s.RoomTerrain(testContext(t), "E5S5", "")
	if err != nil {
		t.Fatalf("RoomTerrain() error = %v", err)
	}
	if len(tiles) != 2 || tiles[0].X != 9 || tiles[1].Type != TerrainWall {
		t.Fatalf("unexpected tiles: %+v", tiles)
	}
	req, _ := srv.Last("/api/game/room-terrain")
	if _, ok := req.Query["shard"]; ok {
		t.Fatalf("empty shard should be omitted: %v", req.Query)
	}
}

func TestStatPointRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{
		`{"value":1}`,
		`{"endTime":1}`,
		`[1]`,
		`{"endTime":"x","value":1}`,
		`{"endTime":"010","value":1}`,
		`{"endTime":100,"value":12.9}`,
		`[100,"0x10"]`,
		`{"endTime":100,"value":1e3}`,
	} {
		var p StatPoint
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			t.Fatalf("%s: expected error, got %+v", raw, p)
		}
	}
}

func TestScalarMapsRejectLossyNumbers(t *testing.T) {
	for _, raw := range []string{`{"energyHarvested":"0x10"}`, `{"creepsLost":3.7}`, `{"power":true}`} {
		var totals RoomTotals
		if err := json.Unmarshal([]byte(raw), &totals); err == nil {
			t.Fatalf("totals %s: expected error, got %v", raw, totals)
		}
		var statsMax RoomMaxStats
		if err := json.Unmarshal([]byte(raw), &statsMax); err == nil {
			t.Fatalf("statsMax %s: expected error, got %v", raw, statsMax)
		}
	}

	var totals RoomTotals
	if err := json.Unmarshal([]byte(`{"energyHarvested":"16","creepsLost":-3,"power":null}`), &totals); err != nil {
		t.Fatalf("unmarshal totals: %v", err)
	}
	if totals["energyHarvested"] != 16 || totals["creepsLost"] != -3 {
		t.Fatalf("unexpected totals: %v", totals)
	}
	if _, ok := totals.Get(MetricPower); ok {
		t.Fatal("null total reported present")
	}
}
