package ipc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is one action request sent to a session's worker. It is a flat
// map that always carries "id" and "action"; every other field is
// action-specific.
type Request map[string]any

// ID returns the request's correlation token.
func (r Request) ID() string {
	s, _ := r["id"].(string)
	return s
}

// Action returns the worker-side handler name.
func (r Request) Action() string {
	s, _ := r["action"].(string)
	return s
}

// Response is the worker's single reply line.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HasData reports whether the response carries a non-null data value.
func (r *Response) HasData() bool {
	d := bytes.TrimSpace(r.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// ProtocolError reports a response line that arrived intact but is not a
// valid response. It is never retried.
type ProtocolError struct {
	Line string
	Err  error
}

func (e *ProtocolError) Error() string {
	line := e.Line
	if len(line) > 200 {
		line = line[:200] + "..."
	}
	return fmt.Sprintf("invalid response from daemon: %v (got %q)", e.Err, line)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// EncodeLine renders v as a single JSON line terminated by '\n'.
// HTML characters are left unescaped so scripts and selectors reach the
// worker as typed.
func EncodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeResponse parses one response line. Blank lines yield
// ErrEmptyResponse; anything else that fails to parse is a ProtocolError.
func DecodeResponse(line []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, ErrEmptyResponse
	}

	var resp Response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, &ProtocolError{Line: string(trimmed), Err: err}
	}
	return &resp, nil
}
