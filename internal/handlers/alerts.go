package handlers

import (
	"errors"
	"net/http"

	"beltsense/internal/models"
	"beltsense/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errReadingFailed = "diagnosis unavailable, try again later"
)

// Request DTO for submitting a fill-level reading.
type readingRequest struct {
	Source    string `json:"source" binding:"required"`
	FillLevel int    `json:"fillLevel"`
}

// SubmitReadingRequest is an exported model for Swagger docs of the reading payload.
type SubmitReadingRequest struct {
	// Name of the reporting chute
	Source string `json:"source" example:"Chute 3"`
	// Fill level percentage, 0-100
	FillLevel int `json:"fillLevel" example:"92"`
}

// @Summary      List active alerts
// @Tags         alerts
// @Produce      json
// @Success      200  {array}   models.AlertRecord
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/alerts [get]
// @Security     BearerAuth
func (h *Handler) listAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Alerts.List())
}

// @Summary      Submit a fill-level reading
// @Description  Readings at or above the alert threshold trigger a model diagnosis
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        body  body   SubmitReadingRequest  true  "Reading payload"
// @Success      200   {array}   models.AlertRecord
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/alerts/readings [post]
// @Security     BearerAuth
func (h *Handler) submitReading(c *gin.Context) {
	var req readingRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	alerts, err := h.services.Alerts.HandleReading(c.Request.Context(), models.Reading{
		Source:    req.Source,
		FillLevel: req.FillLevel,
	})
	if err != nil {
		// The store is untouched on a failed diagnosis; the caller may retry.
		if errors.Is(err, service.ErrRecommendationUnavailable) {
			h.logAndJSONError(c, http.StatusBadGateway, errReadingFailed, "reading_diagnosis_failed", err, "source", req.Source)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errReadingFailed, "reading_failed", err, "source", req.Source)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary      Dismiss an alert
// @Tags         alerts
// @Produce      json
// @Param        source  path  string  true  "Alert source"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/alerts/{source} [delete]
// @Security     BearerAuth
func (h *Handler) dismissAlert(c *gin.Context) {
	source := c.Param("source")
	if !h.services.Alerts.Dismiss(c.Request.Context(), source) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active alert for source"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
