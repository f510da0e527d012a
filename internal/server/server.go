package server

import (
	"context"
	"errors"
	"net/http"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"docchat/internal/answer"
	"docchat/internal/app"
	"docchat/internal/embed"
)

// Service is the application surface the HTTP layer depends on.
type Service interface {
	Answer(ctx context.Context, query string, history []answer.Message) (app.Reply, error)
	BuildIndex(ctx context.Context) error
	IndexSize() int
}

type Server struct {
	svc Service
	log *charmlog.Logger
}

func New(svc Service, log *charmlog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(s.log), gin.Recovery())

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	r.POST("/chat", s.handleChat)
	r.POST("/reload", s.handleReload)
	return r
}

type chatRequest struct {
	Message string           `json:"message"`
	History []answer.Message `json:"history"`
}

type sourceRef struct {
	Source string  `json:"source"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float32 `json:"score"`
}

type chatResponse struct {
	Answer       string      `json:"answer"`
	ContextFound bool        `json:"context_found"`
	Sources      []sourceRef `json:"sources,omitempty"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no message provided"})
		return
	}

	reply, err := s.svc.Answer(c.Request.Context(), req.Message, req.History)
	if err != nil {
		s.log.Error("chat failed", "request_id", c.GetString(requestIDKey), "err", err)
		c.JSON(statusFor(err), gin.H{"error": "failed to answer"})
		return
	}

	resp := chatResponse{Answer: reply.Answer, ContextFound: reply.ContextFound}
	for _, ref := range reply.Sources {
		resp.Sources = append(resp.Sources, sourceRef{
			Source: ref.Source,
			Start:  ref.Start,
			End:    ref.End,
			Score:  ref.Score,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// statusFor maps upstream model failures to 502 so clients can tell a
// dependency outage from a bug in this service.
func statusFor(err error) int {
	var embedErr *embed.Error
	var genErr *answer.Error
	if errors.As(err, &embedErr) || errors.As(err, &genErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"chunks": s.svc.IndexSize(),
	})
}

func (s *Server) handleReload(c *gin.Context) {
	if err := s.svc.BuildIndex(c.Request.Context()); err != nil {
		s.log.Error("reload failed", "request_id", c.GetString(requestIDKey), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chunks": s.svc.IndexSize()})
}
