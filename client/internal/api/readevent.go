package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// ReadEventAdapter is the read_event resource plus alarm acknowledgement.
type ReadEventAdapter struct {
	*CrudAdapter
}

// NewReadEventAdapter returns the read event adapter.
func NewReadEventAdapter(conn Conn) *ReadEventAdapter {
	return &ReadEventAdapter{CrudAdapter: NewCrudAdapter(conn, ResourceReadEvent, basePaths[ResourceReadEvent])}
}

// DisableAlarmEvent clears the alarm raised by event, storing values
// (typically the operator's comment) with it. Failures are logged and
// reported through ok.
func (a *ReadEventAdapter) DisableAlarmEvent(ctx context.Context, event, values record.Record) (record.Value, bool) {
	body := record.New(
		record.Field{Name: "record", Value: record.Object(event)},
		record.Field{Name: "values", Value: record.Object(values)},
	)
	v, err := a.conn.callValue(ctx, http.MethodPut, a.base+"/disable_event", body, "disable alarm event")
	if err != nil {
		id, _ := event.ID()
		log.Warn().Err(err).Str("read_event_id", id).Msg("disable alarm event failed")
		return record.Value{}, false
	}
	return v, true
}
