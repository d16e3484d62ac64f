package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	clienterrors "github.com/mazi76erX2/trac8-frontend/client/internal/errors"
	"github.com/mazi76erX2/trac8-frontend/client/internal/types"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// maxErrorBody bounds how much of a failed response is kept on the error.
const maxErrorBody = 4 << 10

// Conn is the transport shared by every adapter. Authorization and request
// ids are added by the HTTP client's transport, not here.
type Conn struct {
	HTTP    types.HTTPClient
	BaseURL string
}

// NewConn returns a Conn for baseURL.
func NewConn(httpClient types.HTTPClient, baseURL string) Conn {
	return Conn{HTTP: httpClient, BaseURL: baseURL}
}

// joinURL joins base and path with exactly one slash and appends q.
func joinURL(base, path string, q url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// encodeBody renders outgoing payloads. Records and generic maps go through
// record so time values leave as ISO-8601 UTC millis.
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case record.Record, record.Value, []record.Record, map[string]any, []any:
		return bytes.NewReader(record.FromAny(b).AppendJSON(nil)), nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func (c Conn) newRequest(ctx context.Context, method, path string, q url.Values, body any) (*http.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rd, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, joinURL(c.BaseURL, path, q), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs req and returns the body of a 2xx response. Failures come
// back as *errors.ClassifiedError named after op.
func (c Conn) send(req *http.Request, op string) ([]byte, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, clienterrors.NewNetworkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, clienterrors.NewHTTPError(resp.StatusCode, string(b), op)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clienterrors.NewNetworkError(op, err)
	}
	return data, nil
}

// call builds and sends one request.
func (c Conn) call(ctx context.Context, method, path string, q url.Values, body any, op string) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, q, body)
	if err != nil {
		return nil, err
	}
	return c.send(req, op)
}

// getRecords GETs path and decodes an array, a single object or an empty
// body into records.
func (c Conn) getRecords(ctx context.Context, path string, q url.Values, op string) ([]record.Record, error) {
	data, err := c.call(ctx, http.MethodGet, path, q, nil, op)
	if err != nil {
		return nil, err
	}
	rs, err := record.DecodeLenient(data)
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	if rs == nil {
		rs = []record.Record{}
	}
	return rs, nil
}

// callValue sends a request and decodes whatever JSON comes back. An empty
// body decodes to null.
func (c Conn) callValue(ctx context.Context, method, path string, body any, op string) (record.Value, error) {
	data, err := c.call(ctx, method, path, nil, body, op)
	if err != nil {
		return record.Value{}, err
	}
	return decodeValue(data, op)
}

func decodeValue(data []byte, op string) (record.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return record.Null(), nil
	}
	v, err := record.DecodeValue(data)
	if err != nil {
		return record.Value{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	return v, nil
}

// truthy interprets a status response. null, false, 0, empty text and the
// text "false" are negative.
func truthy(v record.Value) bool {
	switch v.Kind() {
	case record.KindNull:
		return false
	case record.KindBool:
		b, _ := v.AsBool()
		return b
	case record.KindNumber:
		n, _ := v.AsNumber()
		return n != 0
	case record.KindString:
		s, _ := v.AsString()
		return s != "" && !strings.EqualFold(s, "false")
	default:
		return true
	}
}
