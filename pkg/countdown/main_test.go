package countdown

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every timer left running by a test must be reset or finished.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
