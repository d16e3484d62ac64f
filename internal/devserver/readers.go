package devserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const readerResource = "reader"

func (s *Server) readerRoutes(r *mux.Router) {
	r.HandleFunc("/reader", s.listReaders).Methods(http.MethodGet)
	r.HandleFunc("/reader", s.saveReader).Methods(http.MethodPost)
	r.HandleFunc("/reader/{cmd:connect|disconnect|stop-alarm}/{id}", s.readerCommand).Methods(http.MethodPost)
	r.HandleFunc("/reader/{id}", s.getReader).Methods(http.MethodGet)
	r.HandleFunc("/reader/{id}", s.deleteReader).Methods(http.MethodDelete)
	r.HandleFunc("/is-connected/{id}", s.isConnected).Methods(http.MethodGet)
}

// listReaders ignores every query parameter and returns the whole table.
func (s *Server) listReaders(w http.ResponseWriter, r *http.Request) {
	rs, err := s.store.List(r.Context(), readerResource)
	if err != nil {
		s.fail(w, err, "list readers")
		return
	}
	writeRecords(w, rs)
}

func (s *Server) saveReader(w http.ResponseWriter, r *http.Request) {
	rec, err := readRecord(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	saved, err := s.store.Put(r.Context(), readerResource, rec)
	if err != nil {
		s.fail(w, err, "save reader")
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) getReader(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := s.store.Get(r.Context(), readerResource, id)
	if err != nil {
		s.fail(w, err, "reader "+id)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteReader(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), readerResource, id); err != nil {
		s.fail(w, err, "reader "+id)
		return
	}
	s.mu.Lock()
	delete(s.connected, id)
	delete(s.alarms, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readerCommand(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	if _, err := s.store.Get(r.Context(), readerResource, id); err != nil {
		s.fail(w, err, "reader "+id)
		return
	}

	s.mu.Lock()
	switch vars["cmd"] {
	case "connect":
		s.connected[id] = true
	case "disconnect":
		s.connected[id] = false
	case "stop-alarm":
		s.alarms[id] = false
	}
	s.mu.Unlock()

	s.log.Debug().Str("reader_id", id).Str("command", vars["cmd"]).Msg("reader command")
	w.WriteHeader(http.StatusNoContent)
}

// isConnected answers false for unknown readers, like a probe that times out.
func (s *Server) isConnected(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	up := s.connected[id]
	s.mu.Unlock()
	WriteJSON(w, http.StatusOK, record.Bool(up))
}

// Connected reports the simulated connection state of reader id.
func (s *Server) Connected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected[id]
}

// RaiseAlarm marks reader id as alarming until a stop-alarm command.
func (s *Server) RaiseAlarm(id string) {
	s.mu.Lock()
	s.alarms[id] = true
	s.mu.Unlock()
}

// Alarming reports whether reader id has an active alarm.
func (s *Server) Alarming(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alarms[id]
}
