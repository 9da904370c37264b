//go:build tools

// Package tools documents development tool dependencies.
// Tools are run with `go run <module>@<version>` or installed with `go install`;
// none of them are tracked in go.mod.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks from the core ports
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock/mockgen@v0.6.0 (matches go.mod)
//
// Air - live reload for `cmd/landing` during template and copy edits
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
//
// Local stores for tests and demos:
//   Postgres on :55432 and Redis on :56379 (TEST_DB_* / TEST_REDIS_ADDR), or
//   STORE_DRIVER=sqlite with `landing-admin seed --reset` for a zero-dependency demo.
