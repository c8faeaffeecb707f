package testing

import (
	"testing"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// NewTestLogger creates a new logger instance that writes to the testing.TB logger.
// This is useful for seeing log output during test runs.
func NewTestLogger(t testing.TB) types.Logger {
	return logging.NewTest(t)
}
