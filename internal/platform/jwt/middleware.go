package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"stock_valuation/internal/api"
)

// ContextSubject はトークンのsubクレームを保持するgin.Contextのキーです。
const ContextSubject = "subject"

// AuthRequired returns a Gin middleware function that validates HS256 bearer tokens
// signed with secret and rejects the request with 401 otherwise.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Parse and verify JWT signature and expiry
		claims := &jwt.RegisteredClaims{}
		token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			slog.Warn("rejected bearer token", "error", err, "remote_addr", c.ClientIP())
			unauthorized(c, "invalid token")
			return
		}

		// 3. Expose the subject to later handlers
		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg, Code: api.CodeUnauthorized})
}
