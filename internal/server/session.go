package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	sessiondomain "github.com/connectplus/connectplus/internal/session/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListSessions(c *gin.Context) {
	sessions, err := s.sessionSvc.ListByRecency(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

func (s *Server) GetSession(c *gin.Context) {
	customerID, err := s.customerIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user := currentUser(c)
	if user != nil && user.ID == customerID {
		// The customer's own view: an empty unsaved session is fine
		// before the first message.
		session, err := s.sessionSvc.GetOrCreate(c.Request.Context(), customerID, user.Name)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": session})
		return
	}

	session, err := s.sessionSvc.Get(c.Request.Context(), customerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": session})
}

type appendMessageRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

func (s *Server) AppendMessage(c *gin.Context) {
	customerID, err := s.customerIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req appendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sender := currentUser(c)
	if sender == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	customerName := sender.Name
	if sender.ID != customerID {
		customer, err := s.identitySvc.GetUser(c.Request.Context(), customerID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		customerName = customer.Name
	}

	session, err := s.sessionSvc.Append(c.Request.Context(), sessiondomain.AppendRequest{
		CustomerID:   customerID,
		CustomerName: customerName,
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		Text:         req.Text,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) customerIDParam(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("customerId")))
	if err != nil || id == 0 {
		return 0, newValidationError("customerId", "invalid_customer_id", "invalid customer id")
	}
	return id, nil
}

// sessionTranscript loads the stored transcript for the suggestion
// endpoints; a missing session is surfaced as not found.
func (s *Server) sessionTranscript(c *gin.Context) ([]sessiondomain.Message, bool) {
	customerID, err := s.customerIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}

	session, err := s.sessionSvc.Get(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, sessiondomain.ErrNotFound) {
			AbortWithError(c, ErrNotFound)
			return nil, false
		}
		AbortWithError(c, err)
		return nil, false
	}
	return session.Messages, true
}
