package api

import (
	"net/http"
	"time"

	"arena-backend/models"
	"arena-backend/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server exposes the read endpoints over HTTP
type Server struct {
	accounts service.AccountService
	router   *gin.Engine
}

// NewServer creates the HTTP server and registers routes
func NewServer(accounts service.AccountService, environment string) *Server {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		accounts: accounts,
		router:   gin.New(),
	}

	s.router.Use(gin.Recovery(), requestLogger())
	s.registerRoutes()

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/accounts/", s.handleListAccounts)
	// legacy alias, kept for older clients
	s.router.GET("/players/", s.handleListAccounts)

	s.router.GET("/leaderboard/games/", s.handleTopByGames)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// handleListAccounts returns every account with its linked user info
func (s *Server) handleListAccounts(c *gin.Context) {
	views, err := s.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list accounts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list accounts"})
		return
	}

	if views == nil {
		views = []*models.AccountView{}
	}
	c.JSON(http.StatusOK, views)
}

// handleTopByGames returns the top accounts by games played
func (s *Server) handleTopByGames(c *gin.Context) {
	entries, err := s.accounts.TopByGames(c.Request.Context(), service.LeaderboardLimit)
	if err != nil {
		log.WithError(err).Error("Failed to get leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// requestLogger logs each request with method, path, status and latency
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("Handled request")
	}
}
