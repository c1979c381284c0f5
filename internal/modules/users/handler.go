package users

import (
	"net/http"
	"time"

	"shiplabel/internal/models"
	"shiplabel/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for authentication and profiles.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new user handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	authResponse, err := h.svc.Signup(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, authResponse)
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	authResponse, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, user)
}

// GoogleLogin redirects the user to Google's consent screen. The state
// parameter is kept in a short-lived cookie for the callback to verify.
func (h *Handler) GoogleLogin(c echo.Context) error {
	authURL, state, err := h.svc.HandleGoogleLogin()
	if err != nil {
		c.Logger().Error("Handler.GoogleLogin: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Could not initiate Google login")
	}

	c.SetCookie(&http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Path:     "/",
	})

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback completes the OAuth flow after Google redirects back.
func (h *Handler) GoogleCallback(c echo.Context) error {
	stateCookie, err := c.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || c.QueryParam("state") != stateCookie.Value {
		return utils.RespondWithError(c, http.StatusUnauthorized, "Invalid OAuth state")
	}

	code := c.QueryParam("code")
	if code == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, "Authorization code not provided")
	}

	authResponse, err := h.svc.HandleGoogleCallback(c.Request().Context(), code)
	if err != nil {
		c.Logger().Error("Handler.GoogleCallback: ", err)
		return utils.RespondWithError(c, http.StatusInternalServerError, "Google login failed")
	}

	return utils.RespondWithJSON(c, http.StatusOK, authResponse)
}
