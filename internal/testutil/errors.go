// Package testutil provides testing utilities for wait-for-vercel-preview.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockConnRefused simulates a dial failure against a preview URL (used in tests).
	ErrMockConnRefused = errors.New("connection refused")

	// ErrMockConnReset simulates a connection dropped mid-request (used in tests).
	ErrMockConnReset = errors.New("connection reset")
)
