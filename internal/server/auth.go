package server

import (
	"net/http"
	"strings"

	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
	invitationdomain "github.com/connectplus/connectplus/internal/invitation/domain"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.identitySvc.Login(c.Request.Context(), identitydomain.LoginRequest{
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":  result.User,
			"token": result.Token,
		},
	})
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.identitySvc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"ok": true}})
}

func (s *Server) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

type redeemRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RedeemInvitation consumes an invitation code and logs the new customer
// in.
func (s *Server) RedeemInvitation(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invitationSvc.Redeem(c.Request.Context(), invitationdomain.RedeemRequest{
		Code: strings.TrimSpace(req.Code),
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := s.identitySvc.StartSession(c.Request.Context(), resp.User.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":       resp.User,
			"invitation": resp.Invitation,
			"token":      token,
		},
	})
}
