// Package server exposes an index file over HTTP.
//
// Routes:
//
//	GET /plugins.json                 the index file as written
//	GET /api/plugins                  search, sort and paginate records
//	GET /api/plugins/{owner}/{name}   a single record
//	GET /healthz                      liveness and record count
//
// The file is re-read whenever its modification time or size changes, so a
// concurrent `plugindex index` run is picked up without a restart.
package server
