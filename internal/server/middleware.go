package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "current_user"

// Unauthenticated endpoints refill at authRate tokens per second per
// client address, up to authBurst.
const (
	authRate  = 1.0
	authBurst = 5
)

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// throttle guards the credential endpoints against brute force.
func (s *Server) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}
		res, err := s.limiter.Allow("auth:"+c.ClientIP(), authRate, authBurst)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !res.Allowed {
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// requireUser resolves the bearer token to a user and stores it on the
// request context.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.identitySvc.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// requireSelfOrAdmin restricts a :customerId route to the admin or the
// customer it belongs to.
func (s *Server) requireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if user.IsAdmin() {
			c.Next()
			return
		}

		customerID, err := snowflake.ParseString(strings.TrimSpace(c.Param("customerId")))
		if err != nil || customerID != user.ID {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *identitydomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*identitydomain.User)
	if !ok {
		return nil
	}
	return user
}
