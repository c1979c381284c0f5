package utils

import (
	"errors"
	"net/http"
	"strconv"

	"shiplabel/internal/models"
	"shiplabel/pkg/easypost"

	"github.com/labstack/echo/v4"
)

// RespondWithError writes the generic error body.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// RespondWithJSON writes a JSON payload.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// ExtractUserInfo pulls the authenticated user's id and email out of the echo
// context, where the JWT middleware stashed them. The returned error is an
// *echo.HTTPError so handlers can return it directly.
func ExtractUserInfo(c echo.Context) (userID, email string, err error) {
	userID, ok := c.Get("userID").(string)
	if !ok || userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication")
	}
	email, _ = c.Get("userEmail").(string)
	return userID, email, nil
}

// GetPageLimit reads ?page and ?limit with sane fallbacks.
func GetPageLimit(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

// HandleServiceError maps service-layer errors onto HTTP responses so the
// handlers don't repeat the same errors.Is ladder.
func HandleServiceError(c echo.Context, err error) error {
	var apiErr *easypost.APIError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrNoEligibleRate):
		return RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrNotRefundable):
		return RespondWithError(c, http.StatusBadRequest, "Failed to refund shipping label. It may not be eligible for refund.")
	case errors.Is(err, models.ErrAlreadyCancelled):
		return RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateShipment):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrConflict):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		return RespondWithError(c, http.StatusUnauthorized, err.Error())
	case errors.As(err, &apiErr):
		return RespondWithError(c, http.StatusBadGateway, apiErr.Error())
	default:
		c.Logger().Error(err)
		return RespondWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
