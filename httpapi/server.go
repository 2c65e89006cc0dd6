// Package httpapi is the HTTP boundary over the write gateway. It parses
// request bodies into raw field mappings, hands them to the gateway, and
// maps outcomes onto status codes: Created 201, Rejected 400, Conflict 409,
// StoreError 500. Store failures never leak internals into a response.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"taproom/gateway"
	"taproom/record"
)

type Server struct {
	gw  *gateway.Gateway
	log *slog.Logger
}

func New(gw *gateway.Gateway, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{gw: gw, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.home)
	mux.HandleFunc("/api/users/", s.users)
	mux.HandleFunc("/drinks", s.drinksCollection)
	mux.HandleFunc("/drinks/", s.drinkSubtree)
	mux.HandleFunc("/prices", s.prices)
	return s.withRequestLog(mux)
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.message(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "taproom up\n")
}

func (s *Server) users(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			s.list(w, r, func() (any, error) {
				users, err := s.gw.Users()
				return users, err
			})
		case http.MethodPost:
			s.create(w, r, record.KindUser)
		default:
			s.methodNotAllowed(w)
		}
	case r.Method == http.MethodGet:
		id, ok := s.pathID(w, rest)
		if !ok {
			return
		}
		u, found, err := s.gw.UserByID(id)
		s.one(w, r, u, found, err, "user not found")
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) drinksCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.list(w, r, func() (any, error) {
			drinks, err := s.gw.Drinks()
			return drinks, err
		})
	case http.MethodPost:
		s.create(w, r, record.KindDrink)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) drinkSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/drinks/")
	idPart, sub, _ := strings.Cut(rest, "/")
	id, ok := s.pathID(w, idPart)
	if !ok {
		return
	}

	switch sub {
	case "":
		d, found, err := s.gw.DrinkByID(id)
		s.one(w, r, d, found, err, "drink not found")
	case "prices":
		_, found, err := s.gw.DrinkByID(id)
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		if !found {
			s.message(w, http.StatusNotFound, "drink not found")
			return
		}
		s.list(w, r, func() (any, error) {
			prices, err := s.gw.PricesForDrink(id)
			return prices, err
		})
	default:
		s.message(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) prices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	s.create(w, r, record.KindPrice)
}

// create is the shared POST path: decode body, run the gateway, map the
// outcome onto the wire.
func (s *Server) create(w http.ResponseWriter, r *http.Request, kind record.Kind) {
	fields, ok := s.decodeFields(w, r)
	if !ok {
		return
	}

	out := s.gw.AttemptCreate(r.Context(), kind, fields)
	switch out.Status {
	case gateway.StatusCreated:
		s.writeJSON(w, http.StatusCreated, out.Record)
	case gateway.StatusRejected:
		s.writeJSON(w, http.StatusBadRequest, rejectionBody{Message: out.Reason, Errors: out.Errors})
	case gateway.StatusConflict:
		s.writeJSON(w, http.StatusConflict, rejectionBody{Message: out.Reason})
	default:
		// details are already in the log; the client gets a sanitized body
		s.message(w, http.StatusInternalServerError, "internal server error")
	}
}

type rejectionBody struct {
	Message string              `json:"message"`
	Errors  []record.FieldError `json:"errors,omitempty"`
}

func (s *Server) decodeFields(w http.ResponseWriter, r *http.Request) (record.Fields, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var fields record.Fields
	if err := dec.Decode(&fields); err != nil {
		s.message(w, http.StatusBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return fields, true
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, load func() (any, error)) {
	v, err := load()
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) one(w http.ResponseWriter, r *http.Request, v any, found bool, err error, missing string) {
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if !found {
		s.message(w, http.StatusNotFound, missing)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) pathID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSuffix(raw, "/"), 10, 64)
	if err != nil {
		s.message(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		s.log.Error("encoding response", "err", err)
	}
}

func (s *Server) message(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.message(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	s.message(w, http.StatusInternalServerError, "internal server error")
}

// withRequestLog tags every request with an id and logs method, path and
// resulting status.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		reqID := uuid.NewString()
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
