package cluster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrMasterNotFound is returned when the master liveness probe fails for
// any reason: timeout, connection refused, or an unexpected response body.
var ErrMasterNotFound = errors.New("master not found")

// probeTimeout bounds the whole liveness probe. This is deliberately the
// only network timeout in the tool.
const probeTimeout = 5 * time.Second

// masterPort is the insecure API port the kube-deploy master exposes.
const masterPort = "8080"

// ProbeMaster checks that a master is reachable at ip and answering. The
// response body must contain the literal token "OK"; anything else counts
// as not found. There is no retry.
func ProbeMaster(ctx context.Context, client *http.Client, ip string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	url := "http://" + net.JoinHostPort(ip, masterPort) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s unreachable: %v", ErrMasterNotFound, ip, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("%w: reading probe response from %s: %v", ErrMasterNotFound, ip, err)
	}

	if !strings.Contains(string(body), "OK") {
		return fmt.Errorf("%w: %s answered but did not report OK", ErrMasterNotFound, ip)
	}
	return nil
}
