/*
 * MIT License
 *
 * Copyright (c) 2024-2026 The Robokit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package wire

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/robokit-io/robokit/internal/validation"
	"github.com/robokit-io/robokit/log"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second

	// reconnect backoff bounds used when a send hits a dead connection.
	reconnectAttempts     = 3
	reconnectInitialDelay = 50 * time.Millisecond
	reconnectMaxDelay     = 500 * time.Millisecond
)

// Client writes wire requests to one remote runtime over a persistent TCP
// connection. The connection is opened lazily on first send and kept open
// across sends; a send hitting a dead connection reconnects with backoff
// and retries the write once per fresh connection. Connection and write
// failures are returned to the caller. Safe for concurrent use; sends are
// serialized on the connection.
type Client struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	logger       log.Logger

	mu   sync.Mutex
	conn net.Conn
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the client logger. Defaults to log.DiscardLogger.
func WithClientLogger(logger log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDialTimeout bounds connection establishment.
func WithDialTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.dialTimeout = timeout
	}
}

// WithWriteTimeout bounds each request write.
func WithWriteTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.writeTimeout = timeout
	}
}

// NewClient creates a Client for the given "host:port" address. No
// connection is opened until the first send.
func NewClient(address string, opts ...ClientOption) (*Client, error) {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewTCPAddressValidator(address)).
		Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		address:      address,
		dialTimeout:  defaultDialTimeout,
		writeTimeout: defaultWriteTimeout,
		logger:       log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address returns the remote endpoint this client writes to.
func (c *Client) Address() string {
	return c.address
}

// Send writes one encoded payload addressed to the named unit. The
// request names the unit in the path and carries the codec tag as a query
// parameter. Any connect or write failure is returned.
func (c *Client) Send(unitID, tag, payload string) error {
	request := BuildRequest(unitID, tag, c.address, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		if err := c.write(request); err == nil {
			return nil
		}
		// the peer closes single-shot connections between sends; a
		// write failure here just means we need a fresh one
		c.drop()
	}

	retrier := retry.NewRetrier(reconnectAttempts, reconnectInitialDelay, reconnectMaxDelay)
	return retrier.Run(func() error {
		if err := c.connect(); err != nil {
			return err
		}
		if err := c.write(request); err != nil {
			c.drop()
			return err
		}
		return nil
	})
}

// Close drops the connection, if any. The client may be reused; the next
// send reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connect() error {
	if c.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", c.address, c.dialTimeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.address, err)
	}
	c.logger.Debugf("connected to %s", c.address)
	c.conn = conn
	return nil
}

func (c *Client) write(request string) error {
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.conn.Write([]byte(request))
	return err
}

func (c *Client) drop() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// BuildRequest synthesizes the wire form of one outbound message: a POST
// naming the target unit in the path, the codec tag in the query string
// and the encoded payload as the body.
func BuildRequest(unitID, tag, host, payload string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "POST /units/%s?%s=%s HTTP/1.1\r\n", unitID, QueryParamType, tag)
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(payload))
	b.WriteString("\r\n")
	b.WriteString(payload)
	return b.String()
}
