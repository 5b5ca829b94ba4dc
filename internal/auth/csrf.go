package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header carrying the CSRF token on cookie-authenticated writes.
const CSRFTokenHeader = "X-CSRF-Token"

const csrfContextKey = "csrf_token"

// CSRFMiddleware protects requests authenticated by the session cookie.
// Requests with a valid bearer token, or without a session cookie, carry no
// ambient credential and pass through unchecked.
func CSRFMiddleware(secret []byte, secure bool, tokens *TokenIssuer) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if hasValidBearer(c, tokens) || !hasSessionCookie(c) {
			c.Next()
			return
		}

		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Set(csrfContextKey, csrf.Token(r))
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"Forbidden","message":"CSRF token invalid or missing"}`))
}

func hasSessionCookie(c *gin.Context) bool {
	cookie, err := c.Request.Cookie(SessionCookieName)
	return err == nil && cookie.Value != ""
}

func hasValidBearer(c *gin.Context, tokens *TokenIssuer) bool {
	token, ok := bearerToken(c)
	if !ok {
		return false
	}
	if tokens == nil {
		return true
	}
	_, err := tokens.Parse(token)
	return err == nil
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
