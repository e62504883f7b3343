// Package testutil provides helpers shared by the goscope tests.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks fails t when a goroutine outlives the test. Defer it first in
// tests that start a pump or a presenter poll, and stop those in the test
// body: deferred calls run before t.Cleanup.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}
