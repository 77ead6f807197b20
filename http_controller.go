package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// SessionCookieName carries the signed session token between requests.
const SessionCookieName = "kitzcorner_session"

// TokenIssuer signs session tokens for the auth cookie.
type TokenIssuer interface {
	Mint(uid, email string, emailVerified bool) (string, error)
}

// AccountFinisher completes the emailed token flows. The local provider
// implements it; hosted providers finish these on their own pages.
type AccountFinisher interface {
	CompleteEmailVerification(ctx context.Context, token string) error
	CompletePasswordReset(ctx context.Context, token, password string) error
}

type AuthControllerRoutes struct {
	Login         string
	Logout        string
	Register      string
	PasswordReset string
	Verify        string
	Session       string
}

// AuthController exposes the credential operations as a JSON API.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Routes       *AuthControllerRoutes
	Credentials  *Credentials
	Store        *SessionStore
	Tokens       TokenIssuer
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithTokenIssuer(t TokenIssuer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = t
		return c
	}
}

func NewAuthController(credentials *Credentials, store *SessionStore, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		Credentials:  credentials,
		Store:        store,
		ErrorHandler: JSONErrorHandler(defLogger{}),
		Routes: &AuthControllerRoutes{
			Login:         "/login",
			Logout:        "/logout",
			Register:      "/register",
			PasswordReset: "/password-reset",
			Verify:        "/verify",
			Session:       "/session",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Credentials == nil {
		panic("Missing credentials service in auth controller...")
	}
	if c.Store == nil {
		panic("Missing session store in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the credential endpoints.
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Post(controller.Routes.Logout, controller.LogoutPost).
		SetName("sign-out.post")

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("register.post")

	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("pwd-reset.post")

	app.Get(controller.Routes.Session, controller.SessionGet).
		SetName("session.get")
}

// RegisterFinisherRoutes mounts the emailed-token completion endpoints when
// the provider handles them locally.
func RegisterFinisherRoutes[T any](app router.Router[T], controller *AuthController, finisher AccountFinisher) {
	app.Get(fmt.Sprintf("%s/:token", controller.Routes.Verify), func(ctx router.Context) error {
		if err := finisher.CompleteEmailVerification(ctx.Context(), ctx.Param("token")); err != nil {
			return controller.ErrorHandler(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "verified"})
	}).SetName("verify.get")

	app.Post(fmt.Sprintf("%s/:token", controller.Routes.PasswordReset), func(ctx router.Context) error {
		payload := new(struct {
			Password string `form:"password" json:"password"`
		})
		if err := ctx.Bind(payload); err != nil {
			return controller.ErrorHandler(ctx, err)
		}
		if err := finisher.CompletePasswordReset(ctx.Context(), ctx.Param("token"), payload.Password); err != nil {
			return controller.ErrorHandler(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "password updated"})
	}).SetName("pwd-reset-do.post")
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginInput)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	user, err := a.Credentials.Login(ctx.Context(), *payload)
	if err != nil && !IsUnverified(err) {
		return a.ErrorHandler(ctx, err)
	}

	a.setSessionCookie(ctx, user)

	if IsUnverified(err) {
		return ctx.JSON(http.StatusForbidden, map[string]any{
			"user":  user,
			"error": ErrEmailUnverified.Message,
		})
	}

	return ctx.JSON(http.StatusOK, map[string]any{"user": user})
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	if err := a.Credentials.Logout(ctx.Context()); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	a.clearSessionCookie(ctx)
	return ctx.JSON(http.StatusOK, map[string]string{"status": "signed out"})
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterInput)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("====== AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===========================")
	}

	doc, err := a.Credentials.Register(ctx.Context(), *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{"customer": doc})
}

func (a *AuthController) PasswordResetPost(ctx router.Context) error {
	payload := new(struct {
		Email string `form:"email" json:"email"`
	})

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Credentials.ResetPassword(ctx.Context(), payload.Email); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"status": "reset email sent if the account exists",
	})
}

// SessionGet reports the current session state, including the restoring
// phase, so a client can render its loading gate.
func (a *AuthController) SessionGet(ctx router.Context) error {
	state := a.Store.Current()
	return ctx.JSON(http.StatusOK, map[string]any{
		"loading":   state.Loading,
		"signed_in": state.SignedIn(),
		"user":      state.User,
	})
}

func (a *AuthController) setSessionCookie(ctx router.Context, user *MergedUser) {
	if a.Tokens == nil || user == nil {
		return
	}

	token, err := a.Tokens.Mint(user.ID, user.Email, user.EmailVerified)
	if err != nil {
		a.Logger.Error("session cookie mint failed: %v", err)
		return
	}

	ctx.Cookie(&router.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
	})
}

func (a *AuthController) clearSessionCookie(ctx router.Context) {
	ctx.Cookie(&router.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
	})
}

// JSONErrorHandler maps rich errors onto JSON responses: auth failures to
// 401, bad input to 400, conflicts to 409, everything else to 500. The
// response carries the category and text code, never the wrapped cause.
func JSONErrorHandler(logger Logger) router.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		logger.Info("request error handler: %s category=%s", richErr.Message, richErr.Category)

		status := http.StatusInternalServerError
		switch richErr.Category {
		case errors.CategoryAuth:
			status = http.StatusUnauthorized
		case errors.CategoryAuthz:
			status = http.StatusForbidden
		case errors.CategoryValidation, errors.CategoryBadInput:
			status = http.StatusBadRequest
		case errors.CategoryConflict:
			status = http.StatusConflict
		case errors.CategoryNotFound:
			status = http.StatusNotFound
		}
		if richErr.Code >= 400 {
			status = richErr.Code
		}

		return ctx.JSON(status, map[string]any{
			"error":    richErr.Message,
			"category": richErr.Category,
			"code":     richErr.TextCode,
		})
	}
}
