package handlers

import (
	"log"
	"net/http"

	"github.com/Simonbn1/eksamen/internal/auth"
	"github.com/Simonbn1/eksamen/internal/oauth"
	"github.com/Simonbn1/eksamen/internal/store"
	"github.com/Simonbn1/eksamen/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OAuthHandler struct {
	providers oauth.Registry
	users     *store.UserStore
}

func NewOAuthHandler(providers oauth.Registry, users *store.UserStore) *OAuthHandler {
	return &OAuthHandler{providers: providers, users: users}
}

// requestOrigin reconstructs the externally visible origin, honoring
// the forwarding headers a reverse proxy sets.
func requestOrigin(ctx *gin.Context) string {
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		host := ctx.GetHeader("X-Forwarded-Host")
		if host == "" {
			host = ctx.Request.Host
		}
		return proto + "://" + host
	}

	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + ctx.Request.Host
}

func (h *OAuthHandler) callbackURL(ctx *gin.Context, providerName string) string {
	return requestOrigin(ctx) + "/api/login/" + providerName + "/callback"
}

// Start redirects the browser to the provider's authorization endpoint.
func (h *OAuthHandler) Start(ctx *gin.Context) {
	providerName := ctx.Param("provider")
	provider, ok := h.providers[providerName]

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown identity provider"})
		return
	}

	discovery, err := provider.Discover(ctx.Request.Context())

	if err != nil {
		log.Printf("Discovery failed for %s: %v", providerName, err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Identity provider unavailable"})
		return
	}

	state := uuid.NewString()

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	config := provider.Config(discovery, h.callbackURL(ctx, providerName))

	ctx.Redirect(http.StatusFound, config.AuthCodeURL(state))
}

// Callback finishes the authorization-code flow: exchange the code,
// fetch the userinfo, upsert the user keyed by the provider subject,
// and hand the browser a session cookie.
func (h *OAuthHandler) Callback(ctx *gin.Context) {
	providerName := ctx.Param("provider")
	provider, ok := h.providers[providerName]

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown identity provider"})
		return
	}

	if errParam := ctx.Query("error"); errParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":            "error",
			"error":             errParam,
			"error_description": ctx.Query("error_description"),
		})
		return
	}

	code := ctx.Query("code")

	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "No authorization code received"})
		return
	}

	if state, err := ctx.Cookie("oauth_state"); err != nil || state == "" || state != ctx.Query("state") {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid state parameter"})
		return
	}

	token, err := provider.Exchange(ctx.Request.Context(), code, h.callbackURL(ctx, providerName))

	if err != nil {
		log.Printf("Token exchange failed for %s: %v", providerName, err)
		ctx.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": "Failed to exchange authorization code for tokens"})
		return
	}

	info, err := provider.FetchUserinfo(ctx.Request.Context(), token.AccessToken)

	if err != nil {
		log.Printf("Userinfo fetch failed for %s: %v", providerName, err)
		ctx.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": "Failed to fetch user info"})
		return
	}

	subject := info.Subject

	if subject == "" {
		// Some providers omit sub on the userinfo response; fall back
		// to an own-issued identifier keyed by email.
		subject = info.Email
		if subject == "" {
			subject = uuid.NewString()
		}
	}

	user, err := h.users.UpsertBySubject(providerName, subject, store.Profile{
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
		Claims:  datatypes.JSON(info.Raw),
	})

	if err != nil {
		log.Printf("Failed to upsert user from %s login: %v", providerName, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sessionToken, err := auth.GenerateJWT(user.ID, user.Provider)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, sessionToken, 60*60*24*7)

	ctx.Redirect(http.StatusFound, "/")
}

// Userinfo reports the profile of the authenticated principal,
// whichever identity variant it came from.
func (h *OAuthHandler) Userinfo(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, currentUser)
}
