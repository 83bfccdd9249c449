package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lezgec/relay/internal/config"
	"github.com/lezgec/relay/internal/core"
	"github.com/lezgec/relay/internal/metrics"
)

// HealthResponse is the liveness payload: connected-user count plus the
// known-room listing.
type HealthResponse struct {
	OK    bool     `json:"ok"`
	Users int      `json:"users"`
	Rooms []string `json:"rooms"`
}

// NewServer builds the HTTP server exposing /health, /metrics and /ws.
func NewServer(relay *core.Relay, m *metrics.Metrics, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware())

	router.GET("/health", healthHandler(relay))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	router.GET("/ws", gin.WrapH(NewWSHandler(relay, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(relay *core.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, rooms := relay.Stats()
		c.JSON(stdhttp.StatusOK, HealthResponse{
			OK:    true,
			Users: users,
			Rooms: rooms,
		})
	}
}
