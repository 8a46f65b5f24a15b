// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/testutil"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
	"github.com/leapstack-labs/healthtrends/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Holder       *dataset.Holder
	Notifier     *notifier.Notifier
	SessionStore *sessions.FilesystemStore
	Options      common.Options
}

// SetupTestFixture serves PrepareTable(t, mortalityCSV) with a fresh
// notifier and session store.
func SetupTestFixture(t *testing.T, mortalityCSV string) *TestFixture {
	t.Helper()

	return &TestFixture{
		Holder:       dataset.NewHolder(PrepareTable(t, mortalityCSV)),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(t),
		Options: common.Options{
			PreviewRows:    10,
			DefaultCountry: "Afghanistan",
			IsDev:          true,
		},
	}
}

// PrepareTable merges the bundled reference table with mortalityCSV
// (testutil.SampleMortalityCSV when empty).
func PrepareTable(t *testing.T, mortalityCSV string) *dataset.Table {
	t.Helper()

	if mortalityCSV == "" {
		mortalityCSV = testutil.SampleMortalityCSV
	}

	reference, err := dataset.LoadReference(context.Background(), "")
	require.NoError(t, err)
	wide, err := dataset.ReadMortality(strings.NewReader(mortalityCSV), "test.csv")
	require.NoError(t, err)
	return dataset.Merge(reference, dataset.Melt(wide))
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a server-side session store in a temp dir.
func NewTestSessionStore(t *testing.T) *sessions.FilesystemStore {
	t.Helper()
	return sessions.NewFilesystemStore(t.TempDir(), []byte("test-secret-key-32-bytes-long!!"))
}
