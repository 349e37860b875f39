package httpserver

import (
	"log"
	"net/http"

	"github.com/ruimartins/status-hunter-back/internal/http/handlers"
	"github.com/ruimartins/status-hunter-back/internal/http/middleware"
)

type RouterDependencies struct {
	API            *handlers.API
	Logger         *log.Logger
	AuthToken      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", deps.API.Health)
	mux.HandleFunc("/v1/search", deps.API.Search)
	mux.HandleFunc("/v1/status/", deps.API.FullStatus)
	mux.HandleFunc("/v1/chat/sessions", deps.API.Sessions)
	mux.HandleFunc("/v1/chat/sessions/", deps.API.SessionByID)

	handler := http.Handler(mux)
	handler = middleware.Auth(deps.AuthToken)(handler)
	handler = middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst)(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: deps.CORSOrigins,
	})(handler)
	handler = middleware.Trace(deps.Logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
