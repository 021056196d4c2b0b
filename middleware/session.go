package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/models"
	"matchview/requestctx"
)

var (
	ErrNoToken  = errors.New("missing bearer token")
	ErrNoSecret = errors.New("no token signing secret configured")
)

// TokenParser turns a bearer token into a Session after verifying its HS256
// signature. A parser without a secret rejects every token.
type TokenParser struct {
	Secret []byte
	now    func() time.Time
}

func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{Secret: []byte(secret), now: time.Now}
}

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Parse validates token and extracts the viewer identity
func (p *TokenParser) Parse(token string) (models.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Session{}, ErrNoToken
	}

	if len(p.Secret) == 0 {
		return models.Session{}, ErrNoSecret
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid token: %w", err)
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	sess := models.Session{Username: username, Token: token, Role: claims.Role}
	if !sess.Valid() {
		return models.Session{}, errors.New("token carries no username")
	}
	return sess, nil
}

// BearerToken extracts the token from an Authorization header
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Session rejects requests without a valid bearer token and stores the session
// in the request context.
func Session(parser *TokenParser, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := parser.Parse(BearerToken(r))
			if err != nil {
				logger.Debug("rejected request",
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestctx.RequestIDFromContext(r.Context())),
					zap.Error(err))
				helpers.WriteErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithSession(r.Context(), sess)))
		})
	}
}
