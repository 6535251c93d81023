package api

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luca-patrignani/ledger-bingo/ledger"
)

const callerKey = "caller"

// maxBody bounds what a signed request may carry.
const maxBody = 1 << 16

func (s *Server) authenticate(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	nonce, err := strconv.ParseUint(c.GetHeader(HeaderNonce), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "message": "missing or malformed nonce"})
		return
	}
	identity := c.GetHeader(HeaderIdentity)
	payload := ledger.RequestPayload(c.Request.Method, c.Request.URL.Path, nonce, body)
	if err := ledger.Authenticate(identity, c.GetHeader(HeaderSignature), payload); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "message": err.Error()})
		return
	}
	// Only a verified signature may consume a nonce.
	if err := s.nonces.Accept(identity, nonce); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated", "message": err.Error()})
		return
	}
	c.Set(callerKey, identity)
	c.Next()
}

func caller(c *gin.Context) string {
	return c.GetString(callerKey)
}
