package devserver

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mazi76erX2/trac8-frontend/internal/listquery"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const (
	uploadField      = "file"
	recentEventLimit = 10
)

func (s *Server) extraRoutes(r *mux.Router) {
	r.HandleFunc("/authenticate/request_reset", s.requestReset).Methods(http.MethodPost)
	r.HandleFunc("/authenticate/reset", s.resetPassword).Methods(http.MethodPost)

	r.HandleFunc("/dashboard/{name:admin|security|capture}", s.dashboard).Methods(http.MethodGet)

	r.HandleFunc("/read_event/disable_event", s.disableEvent).Methods(http.MethodPut)

	r.HandleFunc("/user_profile/own", s.getOwnProfile).Methods(http.MethodGet)
	r.HandleFunc("/user_profile/own", s.updateOwnProfile).Methods(http.MethodPut)
	r.HandleFunc("/user_profile/user/{id}", s.profileByUser).Methods(http.MethodGet)

	r.HandleFunc("/item/upload", s.uploadItems).Methods(http.MethodPost)

	const recursive = "/{resource:stock_take|transit_route}"
	r.HandleFunc(recursive+"/create_recursive", s.create).Methods(http.MethodPost)
	r.HandleFunc(recursive+"/recursive", s.readRecursive).Methods(http.MethodGet)
	r.HandleFunc(recursive+"/update_recursive", s.update).Methods(http.MethodPut)
}

func (s *Server) requestReset(w http.ResponseWriter, r *http.Request) {
	body, err := readRecord(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	email, ok := body.Get("email")
	if !ok || email.Text() == "" {
		WriteBadRequest(w, "email is required")
		return
	}
	s.log.Info().Str("email", email.Text()).Msg("password reset requested")
	WriteJSON(w, http.StatusOK, true)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		WriteError(w, http.StatusUnauthorized, "reset token required")
		return
	}
	if _, err := readRecord(r); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, true)
}

func (s *Server) readRecursive(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["resource"]
	rs, err := s.store.List(r.Context(), name)
	if err != nil {
		s.fail(w, err, "read recursive "+name)
		return
	}
	writeRecords(w, rs)
}

// disableEvent merges values into the stored event and clears its alarm.
func (s *Server) disableEvent(w http.ResponseWriter, r *http.Request) {
	body, err := readRecord(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	rv, _ := body.Get("record")
	event, ok := rv.AsObject()
	if !ok {
		WriteBadRequest(w, "record is required")
		return
	}
	id, ok := event.ID()
	if !ok {
		WriteBadRequest(w, "record has no id")
		return
	}
	stored, err := s.store.Get(r.Context(), "read_event", id)
	if err != nil {
		s.fail(w, err, "read_event "+id)
		return
	}
	if vv, ok := body.Get("values"); ok {
		if values, ok := vv.AsObject(); ok {
			for _, f := range values.Fields() {
				stored.Set(f.Name, f.Value)
			}
		}
	}
	stored.Set("alarm", record.Bool(false))
	saved, err := s.store.Put(r.Context(), "read_event", stored)
	if err != nil {
		s.fail(w, err, "disable event "+id)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) findProfile(r *http.Request, userID string) (record.Record, bool, error) {
	rs, err := s.store.List(r.Context(), "user_profile")
	if err != nil {
		return record.Record{}, false, err
	}
	for _, p := range rs {
		if v, ok := p.Get("user_id"); ok && v.Text() == userID {
			return p, true, nil
		}
	}
	return record.Record{}, false, nil
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	p, ok, err := s.findProfile(r, userID)
	if err != nil {
		s.fail(w, err, "user profile")
		return
	}
	if !ok {
		WriteNotFound(w, "no profile for user "+userID)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (s *Server) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	s.writeProfile(w, r, s.currentUser)
}

func (s *Server) profileByUser(w http.ResponseWriter, r *http.Request) {
	s.writeProfile(w, r, mux.Vars(r)["id"])
}

// updateOwnProfile saves the body as the current user's profile, keeping
// the stored id and owner.
func (s *Server) updateOwnProfile(w http.ResponseWriter, r *http.Request) {
	body, err := readRecord(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	existing, ok, err := s.findProfile(r, s.currentUser)
	if err != nil {
		s.fail(w, err, "user profile")
		return
	}
	body.Delete(record.IDField)
	if ok {
		if id, hasID := existing.Get(record.IDField); hasID {
			body.Set(record.IDField, id)
		}
	}
	body.Set("user_id", record.String(s.currentUser))
	saved, err := s.store.Put(r.Context(), "user_profile", body)
	if err != nil {
		s.fail(w, err, "update own profile")
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch name := mux.Vars(r)["name"]; name {
	case "admin":
		counts, err := s.store.Counts(ctx)
		if err != nil {
			s.fail(w, err, "admin dashboard")
			return
		}
		names := make([]string, 0, len(counts))
		for n := range counts {
			names = append(names, n)
		}
		sort.Strings(names)
		out := make([]record.Record, 0, len(names))
		for _, n := range names {
			out = append(out, record.New(
				record.Field{Name: "resource", Value: record.String(n)},
				record.Field{Name: "count", Value: record.Number(float64(counts[n]))},
			))
		}
		writeRecords(w, out)
	case "security":
		rs, err := s.store.List(ctx, "alarm_history")
		if err != nil {
			s.fail(w, err, "security dashboard")
			return
		}
		writeRecords(w, listquery.Sort(rs, record.IDField, listquery.Descending))
	default:
		rs, err := s.store.List(ctx, "read_event")
		if err != nil {
			s.fail(w, err, "capture dashboard")
			return
		}
		recent := listquery.Sort(rs, record.IDField, listquery.Descending)
		writeRecords(w, listquery.Paginate(recent, 1, recentEventLimit))
	}
}

// uploadItems imports a JSON array of items or a CSV file with a header row.
func (s *Server) uploadItems(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		WriteBadRequest(w, "missing "+uploadField+" part")
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBodyBytes))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	rs, err := parseUpload(data)
	if err != nil {
		WriteBadRequest(w, hdr.Filename+": "+err.Error())
		return
	}
	for _, rec := range rs {
		if _, err := s.store.Put(r.Context(), "item", rec); err != nil {
			s.fail(w, err, "import items")
			return
		}
	}
	s.log.Info().Str("filename", hdr.Filename).Int("items", len(rs)).Msg("items imported")
	WriteJSON(w, http.StatusOK, map[string]int{"imported": len(rs)})
}

func parseUpload(data []byte) ([]record.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return record.DecodeList(trimmed)
	}
	rows, err := csv.NewReader(bytes.NewReader(trimmed)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return []record.Record{}, nil
	}
	header := rows[0]
	out := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var rec record.Record
		for i, col := range header {
			if i < len(row) {
				rec.Set(strings.TrimSpace(col), csvValue(row[i]))
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// csvValue reads numbers and dates; everything else stays text.
func csvValue(s string) record.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return record.Null()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return record.Number(n)
	}
	return record.Revive(s)
}
