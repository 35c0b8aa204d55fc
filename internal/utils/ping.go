package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// AuthorizerTimeout bounds an Authorizer reachability probe
const AuthorizerTimeout = 1500 * time.Millisecond

// DialService opens and closes a TCP connection to the host of serviceURL
// and reports how long the dial took. Ports default from the scheme.
func DialService(ctx context.Context, serviceURL string) (time.Duration, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return 0, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Hostname() == "" {
		return 0, fmt.Errorf("invalid URL %q: no host", serviceURL)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	address := net.JoinHostPort(u.Hostname(), port)

	var d net.Dialer
	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	elapsed := time.Since(start)
	_ = conn.Close()
	return elapsed, nil
}

// PingAuthorizer checks that the Authorizer service accepts connections
func PingAuthorizer(authzURL string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), AuthorizerTimeout)
	defer cancel()
	return DialService(ctx, authzURL)
}
