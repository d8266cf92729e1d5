package httpx

import (
	"errors"
	"net/http"
	"strings"
)

const welcomeMessage = "Welcome to the doctrack API"

type messageResponse struct {
	Message string `json:"message"`
}

func homeHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, messageResponse{Message: welcomeMessage})
}

// helloHandler greets ?name=, defaulting to World.
func helloHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "World"
	}
	WriteJSON(w, http.StatusOK, messageResponse{Message: "Hello, " + name + "!"})
}

// notFound renders the mux's 404 and 405 responses as JSON error bodies.
type notFound struct {
	mux *http.ServeMux
}

func (h notFound) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}
	h.mux.ServeHTTP(&notFoundWriter{ResponseWriter: w}, r)
}

var (
	errRouteNotFound    = errors.New("resource not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

type notFoundWriter struct {
	http.ResponseWriter
	replaced bool
}

func (w *notFoundWriter) WriteHeader(status int) {
	var p ErrorParams
	switch status {
	case http.StatusNotFound:
		p = ErrorParams{Code: status, ErrCode: "not_found", Err: errRouteNotFound}
	case http.StatusMethodNotAllowed:
		p = ErrorParams{Code: status, ErrCode: "method_not_allowed", Err: errMethodNotAllowed}
	default:
		w.ResponseWriter.WriteHeader(status)
		return
	}
	w.replaced = true
	w.Header().Del("X-Content-Type-Options")
	WriteError(w.ResponseWriter, p)
}

func (w *notFoundWriter) Write(b []byte) (int, error) {
	if w.replaced {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
