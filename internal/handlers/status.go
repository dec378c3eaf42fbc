package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"beltsense/internal/models"
	"beltsense/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errListChutes  = "failed to load chute statuses"
	errGetChute    = "failed to load chute"
	errUpdateChute = "failed to update chute status"
	errChuteGone   = "chute not found"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for status updates.
type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"` // Normal | Warning | Full | Offline
}

// UpdateStatusRequest is an exported model for Swagger docs of the update payload.
type UpdateStatusRequest struct {
	// Status to set. Allowed: Normal, Warning, Full, Offline
	Status string `json:"status" example:"Full"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List chute statuses
// @Tags         status
// @Produce      json
// @Success      200  {array}   models.Chute
// @Failure      500  {object}  map[string]string
// @Router       /status [get]
func (h *Handler) listChutes(c *gin.Context) {
	chutes, err := h.services.ChuteStatus.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListChutes, "chutes_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, chutes)
}

// @Summary      Get chute by barcode
// @Description  Returns a single-element array, matching the consumer's shape
// @Tags         status
// @Produce      json
// @Param        barcode  path  string  true  "Chute barcode"
// @Success      200  {array}   models.Chute
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /status/getByBarcode/{barcode} [get]
func (h *Handler) getChuteByBarcode(c *gin.Context) {
	chute, err := h.services.ChuteStatus.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetChute, "chute_get_failed", err, "barcode", c.Param("barcode"))
		return
	}
	if chute == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errChuteGone})
		return
	}
	c.JSON(http.StatusOK, []models.Chute{*chute})
}

// @Summary      Get chute by id
// @Tags         status
// @Produce      json
// @Param        id  path  int  true  "Chute id"
// @Success      200  {object}  models.Chute
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /status/getById/{id} [get]
func (h *Handler) getChuteByID(c *gin.Context) {
	id, ok := h.chuteIDParam(c)
	if !ok {
		return
	}
	chute, err := h.services.ChuteStatus.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetChute, "chute_get_failed", err, "id", id)
		return
	}
	if chute == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errChuteGone})
		return
	}
	c.JSON(http.StatusOK, chute)
}

// @Summary      Update chute status by barcode
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        barcode  path  string               true  "Chute barcode"
// @Param        body     body  UpdateStatusRequest  true  "Status payload"
// @Success      200  {object}  models.Chute
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /updateByBarcode/{barcode} [put]
func (h *Handler) updateChuteByBarcode(c *gin.Context) {
	var req statusUpdateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	chute, err := h.services.ChuteStatus.UpdateStatusByBarcode(c.Request.Context(), c.Param("barcode"), req.Status)
	h.respondUpdatedChute(c, chute, err, "barcode", c.Param("barcode"))
}

// @Summary      Update chute status by id
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "Chute id"
// @Param        body  body  UpdateStatusRequest  true  "Status payload"
// @Success      200  {object}  models.Chute
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /update/{id} [put]
func (h *Handler) updateChuteByID(c *gin.Context) {
	id, ok := h.chuteIDParam(c)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	chute, err := h.services.ChuteStatus.UpdateStatusByID(c.Request.Context(), id, req.Status)
	h.respondUpdatedChute(c, chute, err, "id", id)
}

// respondUpdatedChute maps the service result of a status update to HTTP.
func (h *Handler) respondUpdatedChute(c *gin.Context, chute *models.Chute, err error, kv ...interface{}) {
	if err != nil {
		if errors.Is(err, service.ErrUnknownChuteStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateChute, "chute_update_failed", err, kv...)
		return
	}
	if chute == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errChuteGone})
		return
	}
	c.JSON(http.StatusOK, chute)
}

// chuteIDParam parses the :id path param, writing a 400 on failure.
func (h *Handler) chuteIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chute id"})
		return 0, false
	}
	return id, true
}
