//go:build integration

// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database: connection setup from the environment, schema
// migration and transaction-scoped isolation.
package testdb
