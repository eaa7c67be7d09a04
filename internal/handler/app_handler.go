package handler

import (
	"net/http"

	"bff/internal/websocket"
	"bff/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppHandler struct {
	db  *gorm.DB
	hub *websocket.Hub
	log logrus.FieldLogger
}

func NewAppHandler(db *gorm.DB, hub *websocket.Hub, log logrus.FieldLogger) *AppHandler {
	return &AppHandler{db: db, hub: hub, log: log}
}

// RegisterRoutes binds the greeting and readiness endpoints under the API group.
func (h *AppHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.Hello)
	router.GET("/healthz", h.Healthz)
}

// Health is the unsigned liveness probe.
// @Summary      Liveness probe
// @Tags         app
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *AppHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Hello greets the caller
// @Summary      Greeting
// @Tags         app
// @Produce      json
// @Param        name  query     string  false  "Name to greet"
// @Success      200   {string}  string
// @Router       /api/ [get]
func (h *AppHandler) Hello(c *gin.Context) {
	name := c.DefaultQuery("name", "World")
	c.JSON(http.StatusOK, "Hello, "+name+"!")
}

// Healthz checks that the database answers
// @Summary      Readiness check
// @Tags         app
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  response.DetailResponse
// @Router       /api/healthz [get]
func (h *AppHandler) Healthz(c *gin.Context) {
	var one int
	if err := h.db.WithContext(c.Request.Context()).Raw("SELECT 1").Scan(&one).Error; err != nil {
		h.log.WithError(err).Error("database readiness check failed")
		c.JSON(http.StatusServiceUnavailable, response.Detail("Database unavailable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Events upgrades the connection and streams assignment events.
func (h *AppHandler) Events(c *gin.Context) {
	websocket.ServeWs(h.hub, c)
}
