package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("invalid authorization header format")
	errInvalidClaims = errors.New("invalid token claims")
)

// parseBearerToken validates the Authorization header of a request and
// returns the user ID and role carried in the token claims.
func parseBearerToken(r *http.Request, jwtSecret string) (string, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", errMissingHeader
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return "", "", errHeaderFormat
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errInvalidClaims
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", errInvalidClaims
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", "", errInvalidClaims
	}
	return userID, role, nil
}

func withUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRoleKey, role)
}

// AuthMiddleware rejects requests without a valid bearer token and puts the
// token's user ID and role on the request context.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, err := parseBearerToken(r, jwtSecret)
			if err != nil {
				logger.Debug("Authentication failed", zap.Error(err))
				switch {
				case errors.Is(err, errMissingHeader) || errors.Is(err, errHeaderFormat):
					RespondWithError(w, http.StatusUnauthorized, err.Error())
				case errors.Is(err, jwt.ErrTokenExpired):
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				case errors.Is(err, errInvalidClaims):
					RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				default:
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", userID),
				zap.String("role", role),
			)

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, role)))
		})
	}
}

// OptionalAuth puts the user ID and role on the context when the request
// carries a valid bearer token, and passes the request through untouched
// otherwise. It runs ahead of the request gate so authenticated clients are
// throttled per user rather than per address.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, role, err := parseBearerToken(r, jwtSecret); err == nil {
				r = r.WithContext(withUser(r.Context(), userID, role))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
