package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// netWorthHandler serves the append-only net-worth history.
type netWorthHandler struct {
	netWorthService portssvc.NetWorthSvcFacade
	pusherService   portssvc.PusherSvcFacade
}

func newNetWorthHandler(ns portssvc.NetWorthSvcFacade, ps portssvc.PusherSvcFacade) *netWorthHandler {
	return &netWorthHandler{netWorthService: ns, pusherService: ps}
}

func registerNetWorthRoutes(rg *gin.RouterGroup, ns portssvc.NetWorthSvcFacade, ps portssvc.PusherSvcFacade) {
	h := newNetWorthHandler(ns, ps)
	rg.GET("/net_worth/", h.history)
}

func (h *netWorthHandler) history(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, err := h.pusherService.Authorize(c.Request.Context(), c.Query("pusher_key"), userID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	resp, err := h.netWorthService.History(c.Request.Context(), pusher, params)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
