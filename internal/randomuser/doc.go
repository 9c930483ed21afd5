// Package randomuser provides an HTTP client for randomuser-compatible user
// directories.
//
// # Overview
//
// The client pages through users served either by https://randomuser.me/api or
// by the bundled directory server (roster serve). It implements
// table.Source[User] so a table.Controller can drive it directly.
//
// # Architecture
//
//   - client.go: resty-based client, query encoding and response handling
//   - types.go: Data structures mirroring the users payload
//
// # Wire Format
//
// A table.Query is encoded as:
//
//	results=<page size>&page=<page>&seed=<seed>
//	sortField=<first key>&sortOrder=ascend|descend
//	sort=<field>:<asc|desc>            (repeated, in priority order)
//	filters[<column>]=<value>          (repeated per value)
//	<column>=<v1,v2>                   (comma joined)
//
// randomuser.me ignores what it does not understand and never reports a
// total, in which case Options.AssumedTotal (100 by default) is reported.
//
// # Error Handling
//
// Transport failures, HTTP status codes of 400 and above and undecodable
// bodies are all returned as errors:
//
//	"execute request: <cause>"
//	"api /api returned status 500"
//	"decode response: <cause>"
//
// Retries are off by default. With Options.Retries set, 5xx and 429 responses
// are retried with resty's backoff.
package randomuser
