package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// debugTransport logs full request and response dumps, bodies and tokens
// included. Enable with TRAC8_DEBUG=true or DEBUG=true, or WithDebugLogging.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(dump)).Msg("http request")
	}

	start := time.Now()
	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Dur("elapsed", time.Since(start)).Msg("http request failed")
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Int("status_code", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Str("response_dump", string(dump)).
			Msg("http response")
	}
	return resp, nil
}

// debugLoggingRequested reports TRAC8_DEBUG=true or DEBUG=true.
func debugLoggingRequested() bool {
	return os.Getenv("TRAC8_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
