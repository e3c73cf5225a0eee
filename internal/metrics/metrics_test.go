package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.VotesCast.Inc()
	m.RPCRequests.WithLabelValues("/lunch.v1.GroupService/Vote", "ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesCast))

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "lunchpicker_votes_cast_total 1")
	assert.Contains(t, string(body), `lunchpicker_rpc_requests_total{code="ok",procedure="/lunch.v1.GroupService/Vote"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
