package devserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const resourcePattern = "/{resource:[a-z_]+}"

func (s *Server) resourceRoutes(r *mux.Router) {
	r.HandleFunc(resourcePattern+"/count", s.count).Methods(http.MethodGet)
	r.HandleFunc(resourcePattern+"/next_val", s.nextVal).Methods(http.MethodGet)
	r.HandleFunc(resourcePattern+"/create", s.create).Methods(http.MethodPost)
	r.HandleFunc(resourcePattern+"/bulk", s.bulk).Methods(http.MethodPost)
	r.HandleFunc(resourcePattern+"/remove/{id}", s.remove).Methods(http.MethodDelete)
	r.HandleFunc(resourcePattern, s.list).Methods(http.MethodGet)
	r.HandleFunc(resourcePattern, s.update).Methods(http.MethodPut)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	p, err := parseListParams(r.URL.Query())
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	rs, err := s.store.List(r.Context(), name)
	if err != nil {
		s.fail(w, err, "list "+name)
		return
	}
	writeRecords(w, answerList(rs, p))
}

func (s *Server) count(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	rs, err := s.store.List(r.Context(), name)
	if err != nil {
		s.fail(w, err, "count "+name)
		return
	}
	n, err := countRecords(rs, r.URL.Query())
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	WriteCount(w, n)
}

func (s *Server) nextVal(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	n, err := s.store.NextID(r.Context(), name)
	if err != nil {
		s.fail(w, err, "next id "+name)
		return
	}
	WriteJSON(w, http.StatusOK, n)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	rec, err := readRecord(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if id, ok := rec.ID(); ok {
		if _, err := s.store.Get(r.Context(), name, id); err == nil {
			WriteError(w, http.StatusConflict, name+" "+id+" already exists")
			return
		}
	}
	saved, err := s.store.Put(r.Context(), name, rec)
	if err != nil {
		s.fail(w, err, "create "+name)
		return
	}
	WriteJSON(w, http.StatusCreated, saved)
}

// update replaces an existing record; it never creates one.
func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	rec, err := readRecord(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	s.replace(w, r, name, rec)
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request, name string, rec record.Record) {
	id, ok := rec.ID()
	if !ok {
		WriteBadRequest(w, "update "+name+": record has no id")
		return
	}
	if _, err := s.store.Get(r.Context(), name, id); err != nil {
		s.fail(w, err, name+" "+id)
		return
	}
	saved, err := s.store.Put(r.Context(), name, rec)
	if err != nil {
		s.fail(w, err, "update "+name)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) bulk(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	rs, err := readRecords(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	saved := make([]record.Record, 0, len(rs))
	for _, rec := range rs {
		out, err := s.store.Put(r.Context(), name, rec)
		if err != nil {
			s.fail(w, err, "bulk "+name)
			return
		}
		saved = append(saved, out)
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.Delete(r.Context(), vars["resource"], vars["id"]); err != nil {
		s.fail(w, err, vars["resource"]+" "+vars["id"])
		return
	}
	WriteJSON(w, http.StatusOK, true)
}
