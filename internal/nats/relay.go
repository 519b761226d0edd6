// Package nats relays audit events to a NATS server so external
// consumers can follow agent activity without tailing the log file.
package nats

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/custodia-ai/agent-platform/internal/audit"
	"github.com/custodia-ai/agent-platform/pkg/logger"
)

// SubjectPrefix is the subject namespace for relayed audit events.
const SubjectPrefix = "audit.events"

// Config holds NATS connection configuration.
type Config struct {
	URL      string
	CAFile   string
	CertFile string
	KeyFile  string
	Token    string
}

// Relay publishes audit events to NATS. It implements audit.Sink:
// publish failures are logged and dropped, never surfaced to the
// conversation path.
type Relay struct {
	conn *nats.Conn
	log  *logger.Logger
}

// Connect establishes a connection to the NATS server.
func Connect(cfg Config, log *logger.Logger) (*Relay, error) {
	log = log.With(zap.String("component", "nats_relay"))

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("NATS error", zap.Error(err))
		}),
	}

	if cfg.CAFile != "" && cfg.CertFile != "" && cfg.KeyFile != "" {
		tlsConfig, err := createTLSConfig(cfg.CAFile, cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts = append(opts, nats.Secure(tlsConfig))
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Relay{conn: nc, log: log}, nil
}

// Publish relays one audit event. The event arrives already redacted;
// the relay serializes it as-is.
func (r *Relay) Publish(ev audit.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		r.log.Warn("failed to serialize audit event", zap.Error(err))
		return
	}
	if err := r.conn.Publish(Subject(ev.Type), payload); err != nil {
		r.log.Warn("failed to relay audit event", zap.Error(err), zap.String("type", string(ev.Type)))
	}
}

// Subject returns the NATS subject for an event kind.
func Subject(kind audit.Kind) string {
	return SubjectPrefix + "." + string(kind)
}

// IsConnected returns true if connected to NATS.
func (r *Relay) IsConnected() bool {
	return r.conn != nil && r.conn.IsConnected()
}

// Close drains and closes the NATS connection.
func (r *Relay) Close() {
	if r.conn != nil {
		if err := r.conn.Drain(); err != nil {
			r.conn.Close()
		}
	}
}

func createTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
