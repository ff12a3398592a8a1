// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are reused across test packages. Each mock
// exposes function fields to override behavior per test, with sensible
// in-memory defaults when no override is set.
package mocks
