package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pennypusher/pennypusher/internal/core/domain"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// entityHandler handles financial entity requests across every kind the
// registry knows.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
	pusherService portssvc.PusherSvcFacade
}

func newEntityHandler(es portssvc.EntitySvcFacade, ps portssvc.PusherSvcFacade) *entityHandler {
	return &entityHandler{entityService: es, pusherService: ps}
}

func registerEntityRoutes(rg *gin.RouterGroup, es portssvc.EntitySvcFacade, ps portssvc.PusherSvcFacade) {
	h := newEntityHandler(es, ps)
	rg.POST("/entity/new/", h.create)
	rg.GET("/entity/", h.list)
	rg.PUT("/entity/", h.replace)
	rg.DELETE("/entity/", h.remove)
}

func (h *entityHandler) resolveKind(c *gin.Context, pusherKey, kindTag string) (*domain.Pusher, string, domain.EntityKind, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return nil, "", "", false
	}
	kind, ok := domain.ParseEntityKind(kindTag)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"description": "The type [" + kindTag + "] is not a valid entity type."})
		return nil, "", "", false
	}
	pusher, err := h.pusherService.Authorize(c.Request.Context(), pusherKey, userID)
	if err != nil {
		failureResponse(c, err)
		return nil, "", "", false
	}
	return pusher, userID, kind, true
}

func (h *entityHandler) create(c *gin.Context) {
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, userID, kind, ok := h.resolveKind(c, req.PusherKey, req.Type)
	if !ok {
		return
	}
	resp, err := h.entityService.Create(c.Request.Context(), pusher, userID, kind, req.Data)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *entityHandler) list(c *gin.Context) {
	var query dto.EntityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailure(c, err)
		return
	}
	var params dto.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, _, kind, ok := h.resolveKind(c, query.PusherKey, query.Type)
	if !ok {
		return
	}
	resp, err := h.entityService.List(c.Request.Context(), pusher, kind, params)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *entityHandler) replace(c *gin.Context) {
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, userID, kind, ok := h.resolveKind(c, req.PusherKey, req.Type)
	if !ok {
		return
	}
	resp, err := h.entityService.Replace(c.Request.Context(), pusher, userID, kind, req.Data)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *entityHandler) remove(c *gin.Context) {
	var query dto.EntityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, _, kind, ok := h.resolveKind(c, query.PusherKey, query.Type)
	if !ok {
		return
	}
	if err := h.entityService.Delete(c.Request.Context(), pusher, kind, query); err != nil {
		failureResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
