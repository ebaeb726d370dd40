package scheduler

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every registration goroutine must exit once its handle is canceled.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
