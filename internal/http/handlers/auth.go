package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okellodaniel/stackbase/internal/config"
	"github.com/okellodaniel/stackbase/internal/domain/user"
	"github.com/okellodaniel/stackbase/internal/repo/postgres"
	"github.com/okellodaniel/stackbase/internal/security"
	"github.com/okellodaniel/stackbase/internal/session"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

type SessionIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	sessions   SessionIssuer
	cookies    session.CookieWriter
}

func NewAuthHandler(users UserReader, userWriter UserWriter, sessions SessionIssuer, cookies session.CookieWriter) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		sessions:   sessions,
		cookies:    cookies,
	}
}

// Any non-empty password is accepted; length policy is left to the
// deployment, not the handler.
type CredentialsRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) LoginForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *AuthHandler) RegisterForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req CredentialsRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "Enter a valid email and a password.",
			"Email": req.Email,
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Email, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			ctx.HTML(http.StatusConflict, "register.html", gin.H{
				"Error": "Email is already registered.",
				"Email": req.Email,
			})
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	h.issueAndRedirect(ctx, u.ID)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req CredentialsRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Enter a valid email and password.",
			"Email": req.Email,
		})
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		h.rejectLogin(ctx, req.Email)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil || !foundUser.IsActive {
		h.rejectLogin(ctx, req.Email)
		return
	}

	h.issueAndRedirect(ctx, foundUser.ID)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.cookies.Clear(ctx)
	ctx.Redirect(http.StatusFound, "/")
}

// helper functions

func (h *AuthHandler) issueAndRedirect(ctx *gin.Context, userID string) {
	token, err := h.sessions.Issue(userID)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.cookies.Set(ctx, token)

	ctx.Redirect(http.StatusFound, "/dashboard")
}

// Same message for unknown email, wrong password and disabled accounts.
func (h *AuthHandler) rejectLogin(ctx *gin.Context, email string) {
	ctx.HTML(http.StatusUnauthorized, "login.html", gin.H{
		"Error": "Email or password is incorrect.",
		"Email": email,
	})
}
