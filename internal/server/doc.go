// Package server exposes the operator's Prometheus metrics and a health
// endpoint over HTTP.
//
// Endpoints:
//
//   - /metrics: the registry handed to NewMetricsServer, served by promhttp.
//   - /healthz: 200 with {"status":"ok"} while the health check passes,
//     503 with {"status":"unhealthy","error":"..."} otherwise. Both carry
//     "lastPass" (id, startedAt, failures, passes) once a pass has run.
//
// The server is optional: the application only starts it when a bind
// address is configured.
package server
