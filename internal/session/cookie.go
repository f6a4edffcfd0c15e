package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieWriter sets and clears the session cookie. Kept separate from the
// token manager so handlers only need one dependency for both.
type CookieWriter struct {
	Name   string
	MaxAge int
	Secure bool
}

func NewCookieWriter(name string, maxAgeSeconds int, secure bool) CookieWriter {
	return CookieWriter{
		Name:   name,
		MaxAge: maxAgeSeconds,
		Secure: secure,
	}
}

func (w CookieWriter) Set(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		w.Name,
		token,
		w.MaxAge,
		"/",
		"",
		w.Secure,
		true, // HttpOnly.
	)
}

func (w CookieWriter) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		w.Name,
		"",
		-1,
		"/",
		"",
		w.Secure,
		true,
	)
}
