package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// encapsulationHandler handles budget/fund/account requests and their
// value snapshots.
type encapsulationHandler struct {
	encapsulationService portssvc.EncapsulationSvcFacade
	pusherService        portssvc.PusherSvcFacade
}

func newEncapsulationHandler(es portssvc.EncapsulationSvcFacade, ps portssvc.PusherSvcFacade) *encapsulationHandler {
	return &encapsulationHandler{encapsulationService: es, pusherService: ps}
}

func registerEncapsulationRoutes(rg *gin.RouterGroup, es portssvc.EncapsulationSvcFacade, ps portssvc.PusherSvcFacade) {
	h := newEncapsulationHandler(es, ps)
	rg.POST("/encapsulation/new/", h.create)
	rg.GET("/encapsulation/", h.list)
	rg.PUT("/encapsulation/", h.replace)
	rg.DELETE("/encapsulation/", h.remove)

	rg.POST("/encapsulation/value/new/", h.createValue)
	rg.GET("/encapsulation/value/", h.listValues)
	rg.DELETE("/encapsulation/value/", h.removeValue)
}

// resolveKind validates the type tag and authorizes the caller against
// the pusher key in one step.
func (h *encapsulationHandler) resolveKind(c *gin.Context, pusherKey, kindTag string) (*domain.Pusher, domain.EncapsulationKind, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return nil, "", false
	}
	kind, ok := domain.ParseEncapsulationKind(kindTag)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"description": "The type [" + kindTag + "] is not a valid encapsulation type."})
		return nil, "", false
	}
	pusher, err := h.pusherService.Authorize(c.Request.Context(), pusherKey, userID)
	if err != nil {
		failureResponse(c, err)
		return nil, "", false
	}
	return pusher, kind, true
}

func (h *encapsulationHandler) create(c *gin.Context) {
	var req dto.CreateEncapsulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, req.PusherKey, req.Type)
	if !ok {
		return
	}
	resp, err := h.encapsulationService.Create(c.Request.Context(), pusher, kind, req.Name, req.Data)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *encapsulationHandler) list(c *gin.Context) {
	var query dto.EncapsulationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, query.PusherKey, query.Type)
	if !ok {
		return
	}
	resp, err := h.encapsulationService.List(c.Request.Context(), pusher, kind)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *encapsulationHandler) replace(c *gin.Context) {
	var req dto.CreateEncapsulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, req.PusherKey, req.Type)
	if !ok {
		return
	}
	resp, err := h.encapsulationService.Replace(c.Request.Context(), pusher, kind, req.Name, req.Data)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *encapsulationHandler) remove(c *gin.Context) {
	var query dto.EncapsulationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, query.PusherKey, query.Type)
	if !ok {
		return
	}
	if query.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"description": "name is required."})
		return
	}
	if err := h.encapsulationService.Delete(c.Request.Context(), pusher, kind, query.Name); err != nil {
		failureResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *encapsulationHandler) createValue(c *gin.Context) {
	var req dto.CreateEncapsulationValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, req.PusherKey, req.Type)
	if !ok {
		return
	}
	resp, err := h.encapsulationService.CreateValue(c.Request.Context(), pusher, kind, req)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *encapsulationHandler) listValues(c *gin.Context) {
	var query dto.EncapsulationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailure(c, err)
		return
	}
	var params dto.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, query.PusherKey, query.Type)
	if !ok {
		return
	}
	if query.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"description": "name is required."})
		return
	}
	resp, err := h.encapsulationService.ListValues(c.Request.Context(), pusher, kind, query.Name, params)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *encapsulationHandler) removeValue(c *gin.Context) {
	var query dto.EncapsulationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, kind, ok := h.resolveKind(c, query.PusherKey, query.Type)
	if !ok {
		return
	}
	if query.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"description": "name is required."})
		return
	}
	ts, ok := parseSnapshotTimestamp(c, query.Timestamp)
	if !ok {
		return
	}
	if err := h.encapsulationService.DeleteValue(c.Request.Context(), pusher, kind, query.Name, ts); err != nil {
		failureResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseSnapshotTimestamp parses the timestamp query parameter used to key
// snapshot deletes.
func parseSnapshotTimestamp(c *gin.Context, value string) (time.Time, bool) {
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"description": "timestamp is required."})
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"description": "timestamp must be formatted as RFC 3339."})
	return time.Time{}, false
}
