// Package restapi exposes the Controller over HTTP: CRUD on canvases and
// features, socket status, and a WebSocket stream of live socket status
// for the web-facing status panel (spec.md §6 external interfaces).
package restapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ledserver/internal/controller"
)

// Server wires a Controller to an HTTP mux. Handlers only call the
// Controller's read/CRUD accessors; none touch a pixel buffer directly.
type Server struct {
	ctl      *controller.Controller
	router   *mux.Router
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewServer builds the router for ctl. Call Handler to get the
// http.Handler to serve.
func NewServer(ctl *controller.Controller, log zerolog.Logger) *Server {
	s := &Server{
		ctl:    ctl,
		router: mux.NewRouter(),
		log:    log.With().Str("component", "restapi").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(s.logRequest)
	s.router.HandleFunc("/api/canvases", s.listCanvases).Methods(http.MethodGet)
	s.router.HandleFunc("/api/canvases", s.createCanvas).Methods(http.MethodPost)
	s.router.HandleFunc("/api/canvases/{id}", s.getCanvas).Methods(http.MethodGet)
	s.router.HandleFunc("/api/canvases/{id}", s.updateCanvas).Methods(http.MethodPut)
	s.router.HandleFunc("/api/canvases/{id}", s.deleteCanvas).Methods(http.MethodDelete)
	s.router.HandleFunc("/api/canvases/{id}/features", s.listFeatures).Methods(http.MethodGet)
	s.router.HandleFunc("/api/canvases/{id}/features", s.createFeature).Methods(http.MethodPost)
	s.router.HandleFunc("/api/canvases/{id}/features/{featureId}", s.deleteFeature).Methods(http.MethodDelete)
	s.router.HandleFunc("/api/sockets", s.listSockets).Methods(http.MethodGet)
	s.router.HandleFunc("/api/sockets/{host}", s.getSocket).Methods(http.MethodGet)
	s.router.HandleFunc("/api/controller", s.getController).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stream", s.stream).Methods(http.MethodGet)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r)
	})
}
