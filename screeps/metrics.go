package screeps

import "expvar"

var (
	metricRequestsTotal       = expvar.NewInt("screeps_requests_total")
	metricRequestFailedTotal  = expvar.NewInt("screeps_request_failed_total")
	metricRequestFailedStatus = expvar.NewMap("screeps_request_failed_by_status")
	metricNetworkErrorsTotal  = expvar.NewInt("screeps_network_errors_total")
	metricDecodeErrorsTotal   = expvar.NewInt("screeps_decode_errors_total")
	metricTerrainMissingTotal = expvar.NewInt("screeps_overview_terrain_missing_total")
)
