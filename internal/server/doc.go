// Package server implements fluxvision-server, the HTTP backend that keeps
// InfluxDB credentials on one machine and answers for every client.
//
// # Routes
//
//	GET  /api/health          {"status":"ok"}
//	GET  /api/credentials     saved credentials, 404 when none
//	POST /api/credentials     {"url","org","token"} -> {"status":"saved"}
//	GET  /api/influx/check    ping InfluxDB with the saved credentials
//	GET  /api/buckets         [{"id","name","description"}]
//
// Failures are reported as {"detail": "..."} with the status carried by the
// underlying influx.Error: 400 when no credentials are saved, 422 for an
// invalid body, 503 when InfluxDB cannot be reached.
//
// # Request IDs
//
// Every response carries an X-Request-ID header. The same id appears on the
// request and response log lines, so a failure reported by a client can be
// found in the server log.
//
// # TLS and Discovery
//
// TLS is enabled by passing both a certificate and a key. Unless disabled the
// server advertises itself as "_fluxvision._tcp" over mDNS so that clients
// started with --server auto can find it.
package server
