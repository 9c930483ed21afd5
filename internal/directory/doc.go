// Package directory is a small user directory that speaks the randomuser.me
// wire format, so roster can be pointed at a local server with real totals,
// server-side sorting and filtering.
//
// Users live in SQLite (modernc.org/sqlite, pure Go). The schema is managed
// by goose migrations embedded from migrations/. Queries are built with
// squirrel. An empty database is filled with Generate, which derives users and
// their uuids deterministically from a seed string.
//
// Routes:
//
//	GET /api       users page; honours results, page, sort=field:dir (repeated),
//	               sortField/sortOrder, filters[col]=v, gender=, nat=
//	GET /healthz   database ping
//	GET /metrics   Prometheus metrics
//
// Unknown sort or filter columns and malformed paging parameters are answered
// with 400 and {"error": "..."}; the response info always carries total.
package directory
