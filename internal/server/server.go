// Package server wires the Telegram webhook to the routing pipeline and
// the hub commands. Group chats feed the passive event listener; private
// chats are the active command hub.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/internal/application/service/agenda"
	"github.com/planwise/planwise/internal/application/service/briefing"
	"github.com/planwise/planwise/internal/application/service/research"
	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// MessageRouter is the routing pipeline as the server sees it.
type MessageRouter interface {
	HandleMessage(ctx context.Context, msg types.InboundMessage) *types.RoutingOutcome
}

// HubNotifier is the slice of the notifier the command hub needs.
type HubNotifier interface {
	interfaces.AgendaNotifier
	DeliverText(ctx context.Context, destination int64, text string) error
	DeliverTrackReport(ctx context.Context, destination int64, topic string, saved, skipped []types.Event) error
}

// Pinger reports backing-store connectivity for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server owns the HTTP surface.
type Server struct {
	router   MessageRouter
	agenda   *agenda.Service
	briefing *briefing.Service
	research *research.Service
	contexts interfaces.ContextStore
	notifier HubNotifier
	pinger   Pinger

	engine *gin.Engine
}

// New builds the server. research and pinger may be nil; the matching
// features degrade gracefully.
func New(
	router MessageRouter,
	agendaSvc *agenda.Service,
	briefingSvc *briefing.Service,
	researchSvc *research.Service,
	contexts interfaces.ContextStore,
	notifier HubNotifier,
	pinger Pinger,
) *Server {
	s := &Server{
		router:   router,
		agenda:   agendaSvc,
		briefing: briefingSvc,
		research: researchSvc,
		contexts: contexts,
		notifier: notifier,
		pinger:   pinger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.handleHealth)
	engine.POST("/api/webhook", s.handleWebhook)

	s.engine = engine
	return s
}

// Engine exposes the router for tests and for custom listeners.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves HTTP until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.pinger != nil {
		if err := s.pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleWebhook is the entry point for all Telegram updates. It always
// answers 200 quickly; anything else makes Telegram retry forever.
func (s *Server) handleWebhook(c *gin.Context) {
	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		logger.Warnf(c.Request.Context(), "unparseable webhook payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	msg, chatType, ok := parseUpdate(&update)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx := logger.WithField(c.Request.Context(), "chat_type", chatType)
	switch {
	case chatType == "private":
		s.handleCommand(ctx, msg)
	case isGroupChat(chatType):
		outcome := s.router.HandleMessage(ctx, msg)
		logger.Info(ctx, "group message routed to outcome %s", outcome.Kind)
	default:
		logger.Warnf(ctx, "unknown chat type %q, ignoring message", chatType)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
