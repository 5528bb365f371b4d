package cluster

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeTarget starts a test server and returns its host IP and a client
// rewired to reach it on port 8080.
func probeTarget(t *testing.T, handler http.HandlerFunc) (string, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	// The probe hardwires port 8080; redirect the dial to the test server.
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
				return (&net.Dialer{}).DialContext(ctx, network, u.Host)
			},
		},
	}
	return u.Hostname(), client
}

func TestProbeMasterOK(t *testing.T) {
	t.Parallel()
	ip, client := probeTarget(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "OK")
	})

	assert.NoError(t, ProbeMaster(context.Background(), client, ip))
}

func TestProbeMasterWrongBody(t *testing.T) {
	t.Parallel()
	ip, client := probeTarget(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not the droids you are looking for")
	})

	err := ProbeMaster(context.Background(), client, ip)
	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestProbeMasterUnreachable(t *testing.T) {
	t.Parallel()
	// TEST-NET-1 address, nothing listens there; the 5s probe deadline
	// turns this into a bounded failure.
	err := ProbeMaster(context.Background(), http.DefaultClient, "192.0.2.1")
	assert.ErrorIs(t, err, ErrMasterNotFound)
}

func TestProbeMasterBodyContainingOK(t *testing.T) {
	t.Parallel()
	ip, client := probeTarget(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"OK","paths":["/api"]}`)
	})

	assert.NoError(t, ProbeMaster(context.Background(), client, ip))
}
