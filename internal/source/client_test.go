package source

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/namerelay/internal/namechange"
	"github.com/roach88/namerelay/internal/testutil"
)

const (
	testBaseURL   = "https://league.test"
	testSearchURL = testBaseURL + "/names"
)

func newTestClient(t *testing.T) (*Client, *testutil.LogBuffer) {
	t.Helper()
	logger, out := testutil.NewLogger()
	c := NewClient(testBaseURL, "test-agent", 0, logger)
	httpmock.ActivateNonDefault(c.http.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c, out
}

func TestRecentNameChanges(t *testing.T) {
	c, out := newTestClient(t)

	httpmock.RegisterResponderWithQuery("GET", testSearchURL, "limit=50", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "test-agent", req.Header.Get("User-Agent"))
		return httpmock.NewStringResponse(200, `[
			{"id": 2, "playerId": 11, "oldName": "A", "newName": "B", "status": "pending", "createdAt": "2024-11-27T10:00:00.000Z"},
			{"id": 1, "playerId": 12, "oldName": "C", "newName": "D", "status": "approved"}
		]`), nil
	})

	records, err := c.RecentNameChanges(context.Background(), PageSize)
	require.NoError(t, err)
	assert.Equal(t, []namechange.Record{
		{OldName: "A", NewName: "B"},
		{OldName: "C", NewName: "D"},
	}, records)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Contains(t, out.String(), `msg="source responded"`)
	assert.Contains(t, out.String(), "status=200")
}

func TestRecentNameChangesEmptyPage(t *testing.T) {
	c, _ := newTestClient(t)
	httpmock.RegisterResponder("GET", testSearchURL, httpmock.NewStringResponder(200, `[]`))

	records, err := c.RecentNameChanges(context.Background(), PageSize)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRecentNameChangesErrors(t *testing.T) {
	tests := []struct {
		name       string
		responder  httpmock.Responder
		wantStatus int
		wantErr    string
	}{
		{
			name:       "api error message",
			responder:  httpmock.NewStringResponder(400, `{"message":"Parameter 'limit' must be a positive integer."}`),
			wantStatus: 400,
			wantErr:    "fetch name changes: status 400: Parameter 'limit' must be a positive integer.",
		},
		{
			name:       "plain error body",
			responder:  httpmock.NewStringResponder(502, `Bad Gateway`),
			wantStatus: 502,
			wantErr:    "fetch name changes: status 502: Bad Gateway",
		},
		{
			name:       "malformed body",
			responder:  httpmock.NewStringResponder(200, `{"not":"a list"}`),
			wantStatus: 200,
			wantErr:    "decode name changes",
		},
		{
			name:       "record without new name",
			responder:  httpmock.NewStringResponder(200, `[{"id":1,"oldName":"A"}]`),
			wantStatus: 200,
			wantErr:    "record [0]: missing required field(s): newName",
		},
		{
			name:      "transport failure",
			responder: httpmock.NewErrorResponder(errors.New("connection refused")),
			wantErr:   "connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t)
			httpmock.RegisterResponder("GET", testSearchURL, tt.responder)

			records, err := c.RecentNameChanges(context.Background(), PageSize)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.Contains(t, err.Error(), tt.wantErr)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
			assert.True(t, IsFetchError(err))
		})
	}
}

func TestIsFetchError(t *testing.T) {
	assert.False(t, IsFetchError(nil))
	assert.False(t, IsFetchError(errors.New("other")))
	assert.True(t, IsFetchError(&FetchError{StatusCode: 500}))
}
