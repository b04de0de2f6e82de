package screeps

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

// RoomOverview fetches the statistics of a room and then its terrain. An
// interval of 0 means Interval180. A refused or unreachable terrain request
// leaves Terrain nil instead of failing the overview; an unreadable terrain
// reply or a done ctx still fails it.
func (s *Session) RoomOverview(ctx context.Context, room, shard string, interval Interval) (*RoomData, error) {
	const path = "/api/game/room-overview"
	if interval == 0 {
		interval = Interval180
	}
	if !interval.valid() {
		return nil, ErrInvalidInterval
	}
	query := url.Values{
		"interval": {strconv.Itoa(int(interval))},
		"shard":    {shard},
		"room":     {room},
	}
	body, ok, err := s.call(ctx, http.MethodGet, path, query, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	overview, err := decodeRoot[RoomData](path, body)
	if err != nil {
		return nil, err
	}

	terrain, err := s.RoomTerrain(ctx, room, shard)
	var de *DecodeError
	switch {
	case errors.As(err, &de):
		return nil, err
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil || terrain == nil:
		metricTerrainMissingTotal.Add(1)
		log.Warn().Err(err).Str("room", room).Str("shard", shard).Msg("room overview without terrain")
		return overview, nil
	}
	overview.Terrain = terrain
	return overview, nil
}

// RoomTerrain returns the non-plain tiles of a room in server order.
func (s *Session) RoomTerrain(ctx context.Context, room, shard string) ([]RoomTerrainTile, error) {
	const path = "/api/game/room-terrain"
	query := url.Values{"room": {room}}
	if shard != "" {
		query.Set("shard", shard)
	}
	body, ok, err := s.call(ctx, http.MethodGet, path, query, authOptional, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeEnvelope[[]RoomTerrainTile](path, "terrain", body)
}
