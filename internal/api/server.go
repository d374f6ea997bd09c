package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yanun0323/logs"

	"main/internal/engine"
	"main/internal/market"
)

const (
	ownerHeader     = "X-Owner-ID"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Server translates HTTP requests into engine and market calls. Identity
// resolution happens upstream; the owner header is trusted as given.
type Server struct {
	router *gin.Engine
	engine *engine.Engine
	market *market.Provider
}

func NewServer(eng *engine.Engine, provider *market.Provider, corsOrigin string) *Server {
	g := gin.New()

	g.Use(requestID())
	g.Use(requestLog())
	g.Use(gin.Recovery())
	g.Use(cors(corsOrigin))

	s := &Server{
		router: g,
		engine: eng,
		market: provider,
	}

	g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.GET("/api/portfolio", s.getPortfolio)
	g.POST("/api/orders", s.postOrder)
	g.GET("/api/forecast", s.getForecast)
	g.GET("/api/symbols", s.getSymbols)

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logs.Infof("http %s %s status=%d latency=%s ref=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.GetString(requestIDKey),
		)
	}
}

func cors(corsOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+ownerHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			c.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
