package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ValentinKolb/timesman/lib/store"
	"github.com/ValentinKolb/timesman/rest"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// maxBodySize bounds the size of a request body
const maxBodySize = 1 << 20

func (s *Server) listTimes(w http.ResponseWriter, r *http.Request) {
	collections, err := s.store.ListCollections(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]rest.Times, 0, len(collections))
	for _, c := range collections {
		resp = append(resp, rest.FromCollection(c))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) createTimes(w http.ResponseWriter, r *http.Request) {
	var req rest.CreateTimesRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if !s.valid(w, req) {
		return
	}

	collection, err := s.store.CreateCollection(r.Context(), req.Title)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rest.FromCollection(collection))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id, ok := collectionID(w, r)
	if !ok {
		return
	}
	s.writeComments(w, r, id)
}

func (s *Server) appendComment(w http.ResponseWriter, r *http.Request) {
	id, ok := collectionID(w, r)
	if !ok {
		return
	}
	s.addComment(w, r, id)
}

// listRecentComments lists the comments of the most recent collection.
// Without any collection the list is empty.
func (s *Server) listRecentComments(w http.ResponseWriter, r *http.Request) {
	c, ok, err := s.mostRecent(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondJSON(w, http.StatusOK, []rest.Comment{})
		return
	}
	s.writeComments(w, r, c.ID)
}

// appendRecentComment appends to the most recent collection
func (s *Server) appendRecentComment(w http.ResponseWriter, r *http.Request) {
	c, ok, err := s.mostRecent(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondError(w, store.NewError(store.RetCNotFound, "no collection exists"))
		return
	}
	s.addComment(w, r, c.ID)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *Server) writeComments(w http.ResponseWriter, r *http.Request, id uint64) {
	entries, err := s.store.ListEntries(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]rest.Comment, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, rest.FromEntry(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request, id uint64) {
	var req rest.AppendRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if !s.valid(w, req) {
		return
	}

	entry, err := s.store.AppendEntry(r.Context(), id, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rest.FromEntry(entry))
}

// mostRecent returns the newest collection by creation time, ties go to the higher id
func (s *Server) mostRecent(r *http.Request) (store.Collection, bool, error) {
	collections, err := s.store.ListCollections(r.Context())
	if err != nil || len(collections) == 0 {
		return store.Collection{}, false, err
	}
	newest := collections[0]
	for _, c := range collections[1:] {
		if c.CreatedAt.After(newest.CreatedAt) || (c.CreatedAt.Equal(newest.CreatedAt) && c.ID > newest.ID) {
			newest = c
		}
	}
	return newest, true, nil
}

func collectionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(w, store.Errorf(store.RetCInvalid, "invalid collection id %q", raw))
		return 0, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := decoder.Decode(v); err != nil {
		respondError(w, store.Errorf(store.RetCInvalid, "invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) valid(w http.ResponseWriter, v any) bool {
	err := s.validate.Struct(v)
	if err == nil {
		return true
	}

	var msgs []string
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range fieldErrs {
			msgs = append(msgs, formatFieldError(e))
		}
	} else {
		msgs = append(msgs, err.Error())
	}
	respondError(w, store.NewError(store.RetCInvalid, strings.Join(msgs, "; ")))
	return false
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Warningf("Failed to write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := store.CodeOf(err)
	msg := err.Error()
	var se *store.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	respondJSON(w, rest.StatusOf(err), rest.ErrorResponse{Error: msg, Code: code.String()})
}
