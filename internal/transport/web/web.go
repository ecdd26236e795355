package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/chat"
	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
	"github.com/innstack/concierge/internal/search"
)

type Server struct {
	srv       *http.Server
	router    *httprouter.Router
	l         *logger.Logger
	conf      Conf
	manager   *reservation.Manager
	catalog   *catalog.Service
	directory *person.Directory
	assistant *chat.Assistant
	index     *search.Index
	hub       *Hub
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
}

type Deps struct {
	Manager   *reservation.Manager
	Catalog   *catalog.Service
	Directory *person.Directory
	Assistant *chat.Assistant
	Index     *search.Index
	Hub       *Hub
}

func New(ctx context.Context, conf Conf, deps Deps) (*Server, error) {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Idempotency-Key"},
	})

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout * time.Second, //nolint:durationcheck
		ErrorLog:          conf.ServerLogger,
		Handler:           corsHandler.Handler(router),
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:       srv,
		router:    router,
		l:         conf.L,
		conf:      conf,
		manager:   deps.Manager,
		catalog:   deps.Catalog,
		directory: deps.Directory,
		assistant: deps.Assistant,
		index:     deps.Index,
		hub:       deps.Hub,
	}

	server.addRoutes(router)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}
