//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` or run through `go run`
// and are not tracked in go.mod since they are development tools, not runtime dependencies.
package tools

// Development tools:
//
// Air - Live reload for cmd/doctrack
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
//
// mockgen - Regenerates internal/mocks from internal/core interfaces
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (pinned in internal/mocks/generate.go)
