package server

import (
	"errors"
	"net/http"

	suggestiondomain "github.com/connectplus/connectplus/internal/suggestion/domain"
	"github.com/gin-gonic/gin"
)

// Fixed fallback strings shown when the provider is unreachable; the
// collaborator never fails a request.
const (
	replyFallback   = "The AI assistant is currently unavailable."
	summaryFallback = "A summary could not be generated."
)

func (s *Server) SuggestReply(c *gin.Context) {
	messages, ok := s.sessionTranscript(c)
	if !ok {
		return
	}

	text, err := s.suggestionSvc.SuggestReply(c.Request.Context(), messages)
	if err != nil {
		if errors.Is(err, suggestiondomain.ErrUnavailable) {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"text": replyFallback, "available": false}})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"text": text, "available": true}})
}

func (s *Server) SummarizeSession(c *gin.Context) {
	messages, ok := s.sessionTranscript(c)
	if !ok {
		return
	}

	text, err := s.suggestionSvc.Summarize(c.Request.Context(), messages)
	if err != nil {
		if errors.Is(err, suggestiondomain.ErrUnavailable) {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"text": summaryFallback, "available": false}})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"text": text, "available": true}})
}
