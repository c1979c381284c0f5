package labels

import (
	"net/http"
	"strconv"

	"shiplabel/internal/models"
	"shiplabel/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for shipping labels.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new label handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// ListLabels returns a page of the user's labels plus their dashboard stats.
// Supports ?page, ?limit, ?search and ?status.
func (h *Handler) ListLabels(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	filters := models.LabelFilters{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}
	page, limit := utils.GetPageLimit(c)

	labels, total, err := h.svc.ListLabels(c.Request().Context(), userID, filters, page, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	stats, err := h.svc.GetStats(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"total":  total,
		"stats":  stats,
	})
}

// GetLabel returns one label by id.
func (h *Handler) GetLabel(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	labelID, err := strconv.ParseInt(c.Param("labelId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid label ID")
	}

	label, err := h.svc.GetLabel(c.Request().Context(), userID, labelID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, label)
}

// CreateLabel quotes the shipment, buys the cheapest eligible rate and
// returns the stored record.
func (h *Handler) CreateLabel(c echo.Context) error {
	userID, userEmail, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateLabelRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	label, err := h.svc.CreateLabel(c.Request().Context(), userID, userEmail, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, label)
}

// GetRates quotes a shipment without purchasing.
func (h *Handler) GetRates(c echo.Context) error {
	if _, _, err := utils.ExtractUserInfo(c); err != nil {
		return err
	}

	var req models.CreateLabelRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	rates, err := h.svc.GetRates(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rates": rates})
}

// GetStats returns the user's dashboard aggregates.
func (h *Handler) GetStats(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.GetStats(c.Request().Context(), userID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, stats)
}

// CancelLabel refunds the shipment upstream and marks the record cancelled.
func (h *Handler) CancelLabel(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	labelID, err := strconv.ParseInt(c.Param("labelId"), 10, 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid label ID")
	}

	if err := h.svc.CancelLabel(c.Request().Context(), userID, labelID); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]string{
		"message": "Shipping label cancelled and refunded successfully",
	})
}
