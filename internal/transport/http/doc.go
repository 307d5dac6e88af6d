// Package http exposes the trip analytics over a JSON HTTP API.
//
// Routes:
//
//	GET /healthz          liveness and version
//	GET /api/v1/cities    cities that can be analyzed
//	GET /api/v1/stats     all four reports for city, month and day
//	GET /api/v1/rows      one 5-row window of raw trips (page is zero based)
//	GET /metrics          Prometheus exposition, when enabled
//
// Handlers stay thin: they bind and validate query parameters, delegate to
// StatsService and render either a contract from pkg/contracts/api/v1 or an
// RFC 7807 problem through the shared ErrorHandler.
package http
