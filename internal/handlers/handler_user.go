package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/dto"
)

// userHandler handles requests for the authenticated user's own record
// and the admin-only user administration surface.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

func registerUserRoutes(rg *gin.RouterGroup, us portssvc.UserSvcFacade) {
	h := newUserHandler(us)
	rg.GET("/user/details/", h.details)
	rg.PUT("/user/details/", h.update)
	rg.GET("/users/all/", h.listAll)
	rg.DELETE("/user/delete/", h.remove)
}

func (h *userHandler) details(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *userHandler) update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *userHandler) listAll(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	users, err := h.userService.ListUsers(c.Request.Context(), userID)
	if err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

func (h *userHandler) remove(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err)
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), userID, req.User); err != nil {
		failureResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
