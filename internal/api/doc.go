// Package api exposes the HTTP surface of the discovery service: the SSE
// record stream, the one-shot aggregation endpoint, and the operational
// endpoints (health, readiness, metrics).
package api
