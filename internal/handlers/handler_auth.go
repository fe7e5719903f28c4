package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fundtires/ledger_backend/internal/dto"
	"github.com/fundtires/ledger_backend/pkg/config"
)

// AuthHandler issues JWT bearer tokens to trusted services. The ledger is an
// internal system of record: callers authenticate with a shared secret, not
// user credentials.
type AuthHandler struct {
	jwtSecret     string
	jwtDuration   time.Duration
	jwtIssuer     string
	serviceSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		jwtSecret:     cfg.JWTSecret,
		jwtDuration:   cfg.JWTExpiryDuration,
		jwtIssuer:     cfg.JWTIssuer,
		serviceSecret: cfg.ServiceSecret,
	}
}

// registerAuthRoutes sets up the public token issuance route.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config) {
	h := NewAuthHandler(cfg)
	auth := r.Group("/auth")
	{
		auth.POST("/token", h.IssueToken)
	}
}

// IssueToken exchanges a service's shared secret for a signed bearer token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if h.serviceSecret == "" ||
		subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.serviceSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid service credentials"})
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    h.jwtIssuer,
		Subject:   req.ServiceID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.jwtDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(h.jwtDuration.Seconds()),
	})
}
