package middleware

import (
	"net/http"
	"strings"

	"github.com/Simonbn1/eksamen/internal/auth"
	"github.com/Simonbn1/eksamen/internal/store"
	"github.com/Simonbn1/eksamen/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// AuthMiddleware accepts the session token either as the cookie the
// login handlers set or as a bearer header, verifies it, and loads the
// principal into the request context.
func AuthMiddleware(users *store.UserStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := tokenFromRequest(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token claims"})
			return
		}

		user, err := users.GetByID(uint(userIDFloat))

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Picture:  user.Picture,
			Provider: user.Provider,
		})
		ctx.Next()
	}
}

// OptionalAuth loads the principal when a valid token is present and
// lets the request through either way. Event creation uses it to tag
// the organizer without forcing a login.
func OptionalAuth(users *store.UserStore) gin.HandlerFunc {
	required := AuthMiddleware(users)

	return func(ctx *gin.Context) {
		if tokenFromRequest(ctx) == "" {
			ctx.Next()
			return
		}

		required(ctx)

		if ctx.IsAborted() {
			return
		}
	}
}

func tokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
