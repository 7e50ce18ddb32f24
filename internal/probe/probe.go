package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"
)

const (
	DefaultPort    = 443
	defaultTimeout = 10 * time.Second
)

// Prober reports whether a remote endpoint accepts TCP connections.
type Prober interface {
	Probe(ctx context.Context, host string, port int) error
}

// TCPProber opens a plain TCP connection and releases it immediately.
// No data is exchanged; an accepted connection counts as reachable.
type TCPProber struct {
	timeout time.Duration
}

func NewTCPProber() *TCPProber {
	return &TCPProber{timeout: defaultTimeout}
}

func (p *TCPProber) Probe(ctx context.Context, host string, port int) error {
	if port == 0 {
		port = DefaultPort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	dialer := &net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		slog.Warn("Reachability probe failed", "address", addr, "error", err)
		return fmt.Errorf("probe %s: %w", addr, err)
	}
	_ = conn.Close()

	slog.Debug("Reachability probe succeeded", "address", addr)
	return nil
}
