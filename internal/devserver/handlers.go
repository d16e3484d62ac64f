package devserver

import (
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"github.com/mazi76erX2/trac8-frontend/internal/devserver/store"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const maxBodyBytes = 8 << 20

func readRecord(r *http.Request) (record.Record, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return record.Record{}, err
	}
	return record.Decode(data)
}

func readRecords(r *http.Request) ([]record.Record, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return record.DecodeList(data)
}

// fail maps store errors to replies and logs the unexpected ones.
func (s *Server) fail(w http.ResponseWriter, err error, msg string) {
	if pkgerrors.Is(err, store.ErrNotFound) {
		WriteNotFound(w, msg)
		return
	}
	s.log.Error().Stack().Err(pkgerrors.Wrap(err, msg)).Msg("request failed")
	WriteInternalError(w, msg)
}

func writeRecords(w http.ResponseWriter, rs []record.Record) {
	if rs == nil {
		rs = []record.Record{}
	}
	WriteJSON(w, http.StatusOK, rs)
}
