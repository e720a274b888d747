package bridge

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/cryptopass/internal/logging"
)

const writeTimeout = 5 * time.Second

// Dialer is the publishing end of the bridge. Publish queues without
// blocking; Run owns the connection and writes queued messages. When the
// other side is not reachable messages are dropped, and Run keeps trying to
// reconnect.
type Dialer struct {
	url    string
	queue  chan Message
	retry  time.Duration
	logger logging.Logger
	dialer *websocket.Dialer
}

// NewDialer targets ws://addr/bridge style URLs.
func NewDialer(url string, queueSize int, retry time.Duration, logger logging.Logger) *Dialer {
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dialer{
		url:    url,
		queue:  make(chan Message, queueSize),
		retry:  retry,
		logger: logger.With("module", "bridge"),
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
	}
}

// URLFor builds the websocket URL of a Hub listening on addr.
func URLFor(addr string) string {
	return "ws://" + addr + Path
}

func (d *Dialer) Publish(m Message) {
	select {
	case d.queue <- m:
	default:
		d.logger.Warn(context.Background(), "bridge queue full, dropping message", "type", m.Type)
	}
}

// Run writes queued messages until ctx is cancelled.
func (d *Dialer) Run(ctx context.Context) {
	var conn *websocket.Conn
	defer func() {
		if conn != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		}
	}()

	retry := d.retry
	if retry <= 0 {
		retry = 3 * time.Second
	}
	ticker := time.NewTicker(retry)
	defer ticker.Stop()

	conn = d.connect(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if conn == nil {
				conn = d.connect(ctx)
			}
		case m := <-d.queue:
			if conn == nil {
				conn = d.connect(ctx)
			}
			if conn == nil {
				d.logger.Debug(ctx, "bridge offline, dropping message", "type", m.Type)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(m); err != nil {
				d.logger.Warn(ctx, "bridge write failed", "error", err)
				_ = conn.Close()
				conn = nil
			}
		}
	}
}

func (d *Dialer) connect(ctx context.Context) *websocket.Conn {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		d.logger.Debug(ctx, "bridge dial failed", "url", d.url, "error", err)
		return nil
	}
	d.logger.Info(ctx, "bridge connected", "url", d.url)
	return conn
}
