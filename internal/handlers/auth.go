package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
)

// sessionCookieName is the cookie carrying the dashboard session JWT.
const sessionCookieName = "viktory_session"

// JWTClaims holds the decoded JWT payload claims.
type JWTClaims struct {
	Sub string `json:"sub"`
	Iss string `json:"iss"`
	Iat int64  `json:"iat"`
	Exp int64  `json:"exp"`
}

// CreateSessionToken mints an HMAC-SHA256 signed JWT for a dashboard session.
func CreateSessionToken(secret []byte, ttl time.Duration) (string, error) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	now := time.Now()
	claims := JWTClaims{
		Sub: "dashboard",
		Iss: "viktory-dashboard",
		Iat: now.Unix(),
		Exp: now.Add(ttl).Unix(),
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)

	sigInput := header + "." + payload
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(sigInput))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return sigInput + "." + signature, nil
}

// ValidateJWT validates a JWT token string: HMAC-SHA256 signature and expiry.
func ValidateJWT(token string, secret []byte) (*JWTClaims, error) {
	parts := strings.SplitN(token, ".", 4)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT format: expected 3 parts, got %d", len(parts))
	}

	sigInput := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(sigInput))
	expectedSig := mac.Sum(nil)

	actualSig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT signature encoding: %w", err)
	}

	if !hmac.Equal(expectedSig, actualSig) {
		return nil, fmt.Errorf("invalid JWT signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload encoding: %w", err)
	}

	var claims JWTClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("invalid JWT payload JSON: %w", err)
	}

	if claims.Exp == 0 {
		return nil, fmt.Errorf("JWT missing exp claim")
	}
	if claims.Exp < time.Now().Unix() {
		return nil, fmt.Errorf("JWT expired")
	}

	return &claims, nil
}

// IsLoggedIn checks the session cookie and validates the JWT.
// Returns (true, claims) if valid, (false, nil) otherwise.
func IsLoggedIn(r *http.Request, secret []byte) (bool, *JWTClaims) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return false, nil
	}

	claims, err := ValidateJWT(cookie.Value, secret)
	if err != nil {
		return false, nil
	}

	return true, claims
}

// AuthHandler handles the app-password gate. The gate must pass before any
// data fetch is reachable.
type AuthHandler struct {
	logger      *common.Logger
	appPassword string
	jwtSecret   []byte
	sessionTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *common.Logger, appPassword string, jwtSecret []byte, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &AuthHandler{
		logger:      logger,
		appPassword: appPassword,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
	}
}

// HandleLogin handles the password form post. A correct password sets the
// session cookie and redirects to the dashboard; anything else redirects
// back to the login page with an error flag.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=bad_request", http.StatusFound)
		return
	}

	password := r.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.appPassword)) != 1 {
		if h.logger != nil {
			h.logger.Warn().Str("remote", r.RemoteAddr).Msg("rejected dashboard login attempt")
		}
		http.Redirect(w, r, "/?error=invalid_password", http.StatusFound)
		return
	}

	token, err := CreateSessionToken(h.jwtSecret, h.sessionTTL)
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Str("error", err.Error()).Msg("failed to create session token")
		}
		http.Redirect(w, r, "/?error=session_failed", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleLogout clears the session cookie and redirects to the login page.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
