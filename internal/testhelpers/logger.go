// Package testhelpers holds fixtures shared by package tests.
package testhelpers

import (
	"testing"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

// NewTestLogger returns a debug level logger writing to stderr, so test
// output shows what the code under test logged. Set -short to silence it.
func NewTestLogger(t *testing.T) infralogger.Logger {
	t.Helper()
	if testing.Short() {
		return infralogger.NewNop()
	}
	log, err := infralogger.New(infralogger.Config{Level: "debug", OutputPaths: []string{"stderr"}})
	if err != nil {
		t.Fatalf("create test logger: %v", err)
	}
	return log
}
