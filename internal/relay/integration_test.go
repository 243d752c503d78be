package relay

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/namerelay/internal/destination"
	"github.com/roach88/namerelay/internal/ledger"
	"github.com/roach88/namerelay/internal/source"
	"github.com/roach88/namerelay/internal/testutil"
)

// TestRun_OverHTTP wires the real clients to mocked endpoints.
func TestRun_OverHTTP(t *testing.T) {
	logger, _ := testutil.NewLogger()
	src := source.NewClient("https://league.test", "test-agent", 0, logger)
	dst := destination.NewClient("https://main.test/v2", 0, logger)

	mock := httpmock.NewMockTransport()
	src.HTTPClient().Transport = mock
	dst.HTTPClient().Transport = mock

	mock.RegisterResponderWithQuery("GET", "https://league.test/names", "limit=50",
		httpmock.NewStringResponder(200, `[
			{"id":3,"oldName":"Zezima","newName":"Zezima Jr","status":"pending"},
			{"id":2,"oldName":"A","newName":"B","status":"approved"},
			{"id":1,"oldName":"Woox","newName":"W00x","status":"pending"}
		]`))

	var submitted string
	mock.RegisterResponder("POST", "https://main.test/v2/names/bulk", func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		submitted = string(body)
		return httpmock.NewStringResponse(201, `{"nameChangesSubmitted":2}`), nil
	})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ledgerPath, []byte(`[{"oldName":"A","newName":"B"}]`), 0o644))

	r := New(Deps{
		Source:      src,
		Destination: dst,
		Ledger:      ledger.New(fs, ledgerPath),
		Logger:      logger,
		RunIDs:      testutil.NewFixedRunIDGenerator("run-1", "run-2"),
	}, Options{})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, report.Outcome)
	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 2, report.Candidates)
	assert.JSONEq(t, `[{"oldName":"Zezima","newName":"Zezima Jr"},{"oldName":"Woox","newName":"W00x"}]`, submitted)

	data, err := afero.ReadFile(fs, ledgerPath)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"oldName":"A","newName":"B"},
		{"oldName":"Zezima","newName":"Zezima Jr"},
		{"oldName":"Woox","newName":"W00x"}
	]`, string(data))

	// Same page again: nothing new, no second POST.
	report, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingNew, report.Outcome)

	assert.Equal(t, 3, mock.GetTotalCallCount(), "two fetches, one submission")
}
