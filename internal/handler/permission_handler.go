package handler

import (
	"net/http"

	"bff/internal/service"
	"bff/pkg/pagination"
	"bff/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PermissionHandler struct {
	permissionService service.PermissionService
	log               logrus.FieldLogger
}

func NewPermissionHandler(permissionService service.PermissionService, log logrus.FieldLogger) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService, log: log}
}

func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	perms := router.Group("/permissions")
	{
		perms.POST("", h.CreatePermission)
		perms.GET("", h.ListPermissions)
		perms.GET("/name/:name", h.GetPermissionByName)
		perms.POST("/assign/:user_uuid/:permission_uuid", h.AssignPermission)
		perms.DELETE("/revoke/:user_uuid/:permission_uuid", h.RevokePermission)
		perms.GET("/:uuid", h.GetPermission)
		perms.PUT("/:uuid", h.UpdatePermission)
		perms.DELETE("/:uuid", h.DeletePermission)
		perms.GET("/:uuid/users", h.ListPermissionUsers)
	}
}

// CreatePermission handles POST /permissions
// @Summary      Create permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePermissionRequest  true  "Permission"
// @Success      201      {object}  service.PermissionResponse
// @Failure      400      {object}  response.DetailResponse
// @Router       /api/permissions [post]
func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req service.CreatePermissionRequest
	if !bindJSON(c, &req) {
		return
	}
	perm, err := h.permissionService.CreatePermission(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, perm)
}

// ListPermissions handles GET /api/permissions
// @Summary      List permissions
// @Tags         permissions
// @Produce      json
// @Param        skip  query  integer  false  "Rows to skip"
// @Param        limit  query  integer  false  "Max rows"
// @Success      200  {array}   service.PermissionResponse
// @Router       /api/permissions [get]
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	p := pagination.Parse(c)
	perms, err := h.permissionService.ListPermissions(c.Request.Context(), p.Skip, p.Limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

// GetPermissionByName handles GET /api/permissions/name/{name}
// @Summary      Get permission by name
// @Tags         permissions
// @Produce      json
// @Param        name  path  string  true  "Permission name"
// @Success      200  {object}  service.PermissionResponse
// @Failure      404  {object}  response.DetailResponse
// @Router       /api/permissions/name/{name} [get]
func (h *PermissionHandler) GetPermissionByName(c *gin.Context) {
	perm, err := h.permissionService.GetPermissionByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

// GetPermission handles GET /api/permissions/{uuid}
// @Summary      Get permission
// @Tags         permissions
// @Produce      json
// @Param        uuid  path  string  true  "Permission UUID"
// @Success      200  {object}  service.PermissionResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/permissions/{uuid} [get]
func (h *PermissionHandler) GetPermission(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	perm, err := h.permissionService.GetPermission(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

// UpdatePermission handles PUT /api/permissions/{uuid}
// @Summary      Update permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        uuid  path  string  true  "Permission UUID"
// @Param        payload  body  service.UpdatePermissionRequest  true  "Payload"
// @Success      200  {object}  service.PermissionResponse
// @Failure      400  {object}  response.DetailResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/permissions/{uuid} [put]
func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	var req service.UpdatePermissionRequest
	if !bindJSON(c, &req) {
		return
	}
	perm, err := h.permissionService.UpdatePermission(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

// DeletePermission handles DELETE /api/permissions/{uuid}
// @Summary      Delete permission
// @Tags         permissions
// @Produce      json
// @Param        uuid  path  string  true  "Permission UUID"
// @Success      204
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/permissions/{uuid} [delete]
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	if err := h.permissionService.DeletePermission(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignPermission grants a permission to a user. Repeating the call is harmless
// @Summary      Assign permission
// @Tags         permissions
// @Produce      json
// @Param        user_uuid        path      string  true  "User UUID"
// @Param        permission_uuid  path      string  true  "Permission UUID"
// @Success      200              {object}  response.MessageResponse
// @Failure      404              {object}  response.DetailResponse
// @Router       /api/permissions/assign/{user_uuid}/{permission_uuid} [post]
func (h *PermissionHandler) AssignPermission(c *gin.Context) {
	userID, ok := parseUUID(c, "user_uuid")
	if !ok {
		return
	}
	permID, ok := parseUUID(c, "permission_uuid")
	if !ok {
		return
	}
	assigned, err := h.permissionService.AssignPermission(c.Request.Context(), userID, permID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !assigned {
		c.JSON(http.StatusOK, response.Message("Permission already assigned to user"))
		return
	}
	c.JSON(http.StatusOK, response.Message("Permission assigned successfully"))
}

// RevokePermission removes a permission from a user. Repeating the call is harmless
// @Summary      Revoke permission
// @Tags         permissions
// @Produce      json
// @Param        user_uuid        path      string  true  "User UUID"
// @Param        permission_uuid  path      string  true  "Permission UUID"
// @Success      200              {object}  response.MessageResponse
// @Failure      404              {object}  response.DetailResponse
// @Router       /api/permissions/revoke/{user_uuid}/{permission_uuid} [delete]
func (h *PermissionHandler) RevokePermission(c *gin.Context) {
	userID, ok := parseUUID(c, "user_uuid")
	if !ok {
		return
	}
	permID, ok := parseUUID(c, "permission_uuid")
	if !ok {
		return
	}
	revoked, err := h.permissionService.RevokePermission(c.Request.Context(), userID, permID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if !revoked {
		c.JSON(http.StatusOK, response.Message("Permission was not assigned to user"))
		return
	}
	c.JSON(http.StatusOK, response.Message("Permission revoked successfully"))
}

// ListPermissionUsers handles GET /api/permissions/{uuid}/users
// @Summary      List users holding a permission
// @Tags         permissions
// @Produce      json
// @Param        uuid  path  string  true  "Permission UUID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/permissions/{uuid}/users [get]
func (h *PermissionHandler) ListPermissionUsers(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	users, err := h.permissionService.ListUsersForPermission(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
