package handler

import (
	"net/http"

	"bff/internal/service"
	"bff/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService       service.UserService
	permissionService service.PermissionService
	log               logrus.FieldLogger
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService, permissionService service.PermissionService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{userService: userService, permissionService: permissionService, log: log}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/admins/all", h.ListAdmins)
		users.GET("/google/:google_id", h.GetUserByGoogleID)
		users.GET("/email/:email", h.GetUserByEmail)
		users.GET("/:uuid", h.GetUser)
		users.PUT("/:uuid", h.UpdateUser)
		users.DELETE("/:uuid", h.DeleteUser)
		users.GET("/:uuid/permissions", h.GetUserWithPermissions)
		users.GET("/:uuid/permissions-list", h.ListUserPermissions)
		users.GET("/:uuid/has-permission/:permission_name", h.HasPermission)
	}
}

// CreateUser handles POST /users requests mapping
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "Create User Payload"
// @Success      201      {object}  service.UserResponse
// @Failure      400      {object}  response.DetailResponse
// @Failure      422      {object}  response.DetailResponse
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        skip   query     int  false  "Rows to skip"
// @Param        limit  query     int  false  "Max rows"
// @Success      200    {array}   service.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	users, err := h.userService.ListUsers(c.Request.Context(), p.Skip, p.Limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListAdmins handles GET /api/users/admins/all
// @Summary      List admins
// @Tags         users
// @Produce      json
// @Success      200  {array}   service.UserResponse
// @Router       /api/users/admins/all [get]
func (h *UserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.userService.ListAdmins(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// GetUserByGoogleID handles GET /api/users/google/{google_id}
// @Summary      Get user by Google id
// @Tags         users
// @Produce      json
// @Param        google_id  path  string  true  "Google id"
// @Success      200  {object}  service.UserResponse
// @Failure      404  {object}  response.DetailResponse
// @Router       /api/users/google/{google_id} [get]
func (h *UserHandler) GetUserByGoogleID(c *gin.Context) {
	user, err := h.userService.GetUserByGoogleID(c.Request.Context(), c.Param("google_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByEmail handles GET /api/users/email/{email}
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Param        email  path  string  true  "Email"
// @Success      200  {object}  service.UserResponse
// @Failure      404  {object}  response.DetailResponse
// @Router       /api/users/email/{email} [get]
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.userService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /users/:uuid
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        uuid  path      string  true  "User UUID"
// @Success      200   {object}  service.UserResponse
// @Failure      404   {object}  response.DetailResponse
// @Failure      422   {object}  response.DetailResponse
// @Router       /api/users/{uuid} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/:uuid; omitted fields keep their value.
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        uuid  path  string  true  "User UUID"
// @Param        payload  body  service.UpdateUserRequest  true  "Payload"
// @Success      200  {object}  service.UserResponse
// @Failure      400  {object}  response.DetailResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/users/{uuid} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/{uuid}
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        uuid  path  string  true  "User UUID"
// @Success      204
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/users/{uuid} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUserWithPermissions returns the user together with its permission names
// @Summary      Get user with permissions
// @Tags         users
// @Produce      json
// @Param        uuid  path      string  true  "User UUID"
// @Success      200   {object}  service.UserWithPermissionsResponse
// @Failure      404   {object}  response.DetailResponse
// @Router       /api/users/{uuid}/permissions [get]
func (h *UserHandler) GetUserWithPermissions(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	user, err := h.userService.GetUserWithPermissions(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUserPermissions handles GET /api/users/{uuid}/permissions-list
// @Summary      List permission names of a user
// @Tags         users
// @Produce      json
// @Param        uuid  path  string  true  "User UUID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/users/{uuid}/permissions-list [get]
func (h *UserHandler) ListUserPermissions(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	names, err := h.permissionService.ListPermissionsForUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": names})
}

// HasPermission answers whether the user holds the named permission; admins always do
// @Summary      Check permission
// @Tags         users
// @Produce      json
// @Param        uuid             path      string  true  "User UUID"
// @Param        permission_name  path      string  true  "Permission name"
// @Success      200              {object}  map[string]bool
// @Failure      404              {object}  response.DetailResponse
// @Router       /api/users/{uuid}/has-permission/{permission_name} [get]
func (h *UserHandler) HasPermission(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	has, err := h.permissionService.HasPermission(c.Request.Context(), id, c.Param("permission_name"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_permission": has})
}
