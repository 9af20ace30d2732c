package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// MaxAttempts bounds how many times Send tries one request.
	MaxAttempts = 5

	retryBaseDelay = 200 * time.Millisecond
	connectTimeout = 5 * time.Second
	writeTimeout   = 5 * time.Second
	readTimeout    = 30 * time.Second
)

// Client sends requests to one session's worker. Each Send opens a fresh
// connection per attempt.
type Client struct {
	endpoint Endpoint
	dial     func(Endpoint, time.Duration) (Conn, error)
	sleep    func(time.Duration)
}

// NewClient creates a client for ep.
func NewClient(ep Endpoint) *Client {
	return &Client{endpoint: ep, dial: Dial, sleep: time.Sleep}
}

// Endpoint returns the address the client dials.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Send writes req as one JSON line and reads one response line back.
// Transient transport failures are retried with linear backoff; anything
// else is returned on the attempt that produced it.
func (c *Client) Send(req Request) (*Response, error) {
	line, err := EncodeLine(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * retryBaseDelay
			log.Debug("retrying request", "action", req.Action(), "attempt", attempt+1, "delay", delay, "err", lastErr)
			c.sleep(delay)
		}

		resp, err := c.roundTrip(line)
		if err == nil {
			return resp, nil
		}
		if !IsTransient(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w (after %d retries - daemon may be busy or unresponsive)", lastErr, MaxAttempts)
}

func (c *Client) roundTrip(line []byte) (*Response, error) {
	conn, err := c.dial(c.endpoint, connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to daemon at %s: %w", c.endpoint, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return nil, fmt.Errorf("setting write deadline: %w", err)
	}
	if _, err := conn.Write(line); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, fmt.Errorf("setting read deadline: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	cutShort := false
	if err != nil {
		// A worker that closes right after its reply may omit the newline.
		if !errors.Is(err, io.EOF) || len(reply) == 0 {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		cutShort = true
	}

	resp, err := DecodeResponse(reply)
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			return nil, fmt.Errorf("reading response: %w", err)
		}
		// Without a newline, an undecodable reply means the worker went away
		// mid-write rather than sent garbage.
		if cutShort {
			return nil, fmt.Errorf("reading response: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	return resp, nil
}
