// Package fbtest connects store tests to the Firestore emulator.
package fbtest

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
)

const (
	EnvEmulator = "FIRESTORE_EMULATOR_HOST"
	ProjectID   = "cafesync-test"
)

// Client returns a client bound to the emulator. The test is skipped when
// EnvEmulator is unset so that a real project is never touched.
func Client(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv(EnvEmulator) == "" {
		t.Skipf("%s not set", EnvEmulator)
	}
	client, err := firestore.NewClient(context.Background(), ProjectID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
