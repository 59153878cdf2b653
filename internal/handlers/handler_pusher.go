package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// pusherHandler handles workspace and membership requests.
type pusherHandler struct {
	pusherService portssvc.PusherSvcFacade
	userService   portssvc.UserSvcFacade
}

func newPusherHandler(ps portssvc.PusherSvcFacade, us portssvc.UserSvcFacade) *pusherHandler {
	return &pusherHandler{pusherService: ps, userService: us}
}

func registerPusherRoutes(rg *gin.RouterGroup, ps portssvc.PusherSvcFacade, us portssvc.UserSvcFacade) {
	h := newPusherHandler(ps, us)
	rg.POST("/pusher/new/", h.create)
	rg.GET("/pusher/all/", h.listOwned)
	rg.GET("/pusher/", h.details)
	rg.PUT("/pusher/", h.rename)
	rg.DELETE("/pusher/", h.remove)

	rg.POST("/pusher/access/new", h.grantAccess)
	rg.GET("/pusher/access/all/", h.listPusherAccess)
	rg.GET("/pusher/access/", h.listUserAccess)
	rg.DELETE("/pusher/access/", h.revokeAccess)
}

// primaryUsername resolves a pusher's primary user id to a username for
// wire rendering.
func (h *pusherHandler) primaryUsername(c *gin.Context, primaryUserID string) (string, error) {
	user, err := h.userService.GetUserByID(c.Request.Context(), primaryUserID)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (h *pusherHandler) create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePusherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}

	pusher, err := h.pusherService.CreatePusher(c.Request.Context(), userID, req.Name)
	if err != nil {
		failureResponse(c, err)
		return
	}
	username, err := h.primaryUsername(c, userID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPusherResponse(pusher, username))
}

func (h *pusherHandler) listOwned(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pushers, err := h.pusherService.ListUserPushers(c.Request.Context(), userID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	username, err := h.primaryUsername(c, userID)
	if err != nil {
		failureResponse(c, err)
		return
	}

	resp := dto.ListPushersResponse{Pushers: make([]dto.PusherResponse, len(pushers))}
	for i, p := range pushers {
		resp.Pushers[i] = dto.ToPusherResponse(&p, username)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *pusherHandler) details(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	pusher, err := h.pusherService.Authorize(c.Request.Context(), c.Query("pusher_key"), userID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	username, err := h.primaryUsername(c, pusher.PrimaryUserID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPusherResponse(pusher, username))
}

func (h *pusherHandler) rename(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.RenamePusherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	pusher, err := h.pusherService.RenamePusher(c.Request.Context(), req.Key, userID, req.Name)
	if err != nil {
		failureResponse(c, err)
		return
	}
	username, err := h.primaryUsername(c, pusher.PrimaryUserID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPusherResponse(pusher, username))
}

func (h *pusherHandler) remove(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.pusherService.DeletePusher(c.Request.Context(), c.Query("pusher_key"), userID); err != nil {
		failureResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *pusherHandler) grantAccess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	access, err := h.pusherService.GrantAccess(c.Request.Context(), userID, req.Username, req.PusherKey)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPusherAccessResponse(access))
}

func (h *pusherHandler) listPusherAccess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rows, err := h.pusherService.ListPusherAccess(c.Request.Context(), userID, c.Query("pusher_key"))
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListPusherAccessResponse(rows))
}

func (h *pusherHandler) listUserAccess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	rows, err := h.pusherService.ListUserAccess(c.Request.Context(), userID, c.Query("pusher_key"))
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListPusherAccessResponse(rows))
}

func (h *pusherHandler) revokeAccess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.pusherService.RevokeAccess(c.Request.Context(), userID, c.Query("username"), c.Query("pusher_key")); err != nil {
		failureResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
