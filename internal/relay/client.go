package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bethropolis/mirror/internal/core/history"
	"github.com/bethropolis/mirror/internal/logger"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("relay: client closed")

// Client is one process's connection to a hub room.
type Client struct {
	ws  *websocket.Conn
	doc string

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// Dial connects to the hub at rawURL and joins doc.
func Dial(ctx context.Context, rawURL, doc string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse relay url: %w", err)
	}
	q := u.Query()
	q.Set("doc", doc)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", u.Redacted(), err)
	}
	ws.SetReadLimit(maxMessageSize)

	logger.Infof("Relay: connected to %s as %q", u.Host, doc)
	return &Client{ws: ws, doc: doc, closed: make(chan struct{})}, nil
}

// Publish sends a record to the other clients of the document.
func (c *Client) Publish(data history.ActionCreateData) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(actionMessage(c.doc, data)); err != nil {
		return fmt.Errorf("publish %s record: %w", data.Kind, err)
	}
	return nil
}

// Run reads records from the hub and hands each to handle until the
// connection ends or ctx is cancelled. A handler error is logged and the
// loop continues. Run returns nil after Close or cancellation.
func (c *Client) Run(ctx context.Context, handle func(history.Record) error) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return nil
			default:
			}
			return fmt.Errorf("relay read: %w", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Relay: dropping undecodable message: %v", err)
			continue
		}
		if msg.Type != TypeAction {
			continue
		}
		rec, err := msg.record()
		if err != nil {
			logger.Warnf("Relay: dropping malformed %s message: %v", msg.Kind, err)
			continue
		}
		if err := handle(rec); err != nil {
			logger.Warnf("Relay: failed to apply %s record from %s: %v", msg.Kind, rec.Editor, err)
		}
	}
}

// Close says goodbye to the hub and closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
