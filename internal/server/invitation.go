package server

import (
	"net/http"
	"strconv"

	invitationdomain "github.com/connectplus/connectplus/internal/invitation/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateInvitation(c *gin.Context) {
	invitation, err := s.invitationSvc.Create(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invitation})
}

func (s *Server) ListInvitations(c *gin.Context) {
	unusedOnly, _ := strconv.ParseBool(c.Query("unused"))

	invitations, err := s.invitationSvc.List(c.Request.Context(), invitationdomain.ListRequest{
		UnusedOnly: unusedOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invitations})
}
