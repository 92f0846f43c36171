// Command healthcheck exits 0 when updatepanel reports a readable statistics
// server store on its health endpoint. It is meant for container HEALTHCHECK
// instructions and prints the failure reason to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	httphandler "github.com/ericfisherdev/updatepanel/internal/adapter/driving/http"
)

const (
	defaultAddr  = "127.0.0.1:8080"
	checkTimeout = 2 * time.Second
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	baseURL := "http://" + normalizeAddr(os.Getenv("UPDATEPANEL_LISTEN_ADDR"))
	if err := checkHealth(ctx, &http.Client{Timeout: checkTimeout}, baseURL); err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
}

// checkHealth fetches the health endpoint under baseURL and fails unless it
// answers 200 with status "ok".
func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request health endpoint: %w", err)
	}
	defer resp.Body.Close()

	var health httphandler.HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&health); err != nil {
		return fmt.Errorf("decode health response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || health.Status != "ok" {
		return fmt.Errorf("unhealthy: status %d, %q %s", resp.StatusCode, health.Status, health.Error)
	}
	return nil
}

// normalizeAddr turns the listen address into one the check can dial: the
// bind-all host becomes loopback, since the check runs next to the server.
func normalizeAddr(raw string) string {
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
