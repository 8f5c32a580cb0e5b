// Package observability provides event logging, metrics calculation,
// alerting and Prometheus export for AI Dev Team. Events are persisted as
// JSON Lines and metrics are derived on demand from the event log.
package observability
