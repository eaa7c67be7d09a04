package handler

import (
	"net/http"

	"bff/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TeamHandler struct {
	teamService service.TeamService
	heroService service.HeroService
	log         logrus.FieldLogger
}

func NewTeamHandler(teamService service.TeamService, heroService service.HeroService, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{teamService: teamService, heroService: heroService, log: log}
}

// RegisterRoutes binds both the team and hero endpoints.
func (h *TeamHandler) RegisterRoutes(router *gin.RouterGroup) {
	teams := router.Group("/teams")
	{
		teams.POST("", h.CreateTeam)
		teams.GET("/:uuid", h.GetTeam)
		teams.PUT("/:uuid", h.UpdateTeam)
		teams.DELETE("/:uuid", h.DeleteTeam)
		teams.GET("/:uuid/heroes", h.ListTeamHeroes)
	}

	heroes := router.Group("/heroes")
	{
		heroes.POST("", h.CreateHero)
		heroes.GET("/:uuid", h.GetHero)
		heroes.PUT("/:uuid", h.UpdateHero)
		heroes.DELETE("/:uuid", h.DeleteHero)
	}
}

// CreateTeam handles POST /api/teams
// @Summary      Create team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateTeamRequest  true  "Payload"
// @Success      201  {object}  service.TeamResponse
// @Failure      400  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req service.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	team, err := h.teamService.CreateTeam(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GetTeam handles GET /api/teams/{uuid}
// @Summary      Get team
// @Tags         teams
// @Produce      json
// @Param        uuid  path  string  true  "Team UUID"
// @Success      200  {object}  service.TeamResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/teams/{uuid} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	team, err := h.teamService.GetTeam(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// UpdateTeam handles PUT /api/teams/{uuid}
// @Summary      Update team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        uuid  path  string  true  "Team UUID"
// @Param        payload  body  service.UpdateTeamRequest  true  "Payload"
// @Success      200  {object}  service.TeamResponse
// @Failure      400  {object}  response.DetailResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/teams/{uuid} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	var req service.UpdateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	team, err := h.teamService.UpdateTeam(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// DeleteTeam removes the team; its heroes stay, detached.
// @Summary      Delete team
// @Tags         teams
// @Produce      json
// @Param        uuid  path  string  true  "Team UUID"
// @Success      204
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/teams/{uuid} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	if err := h.teamService.DeleteTeam(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTeamHeroes handles GET /api/teams/{uuid}/heroes
// @Summary      List team heroes
// @Tags         teams
// @Produce      json
// @Param        uuid  path  string  true  "Team UUID"
// @Success      200  {array}   service.HeroResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/teams/{uuid}/heroes [get]
func (h *TeamHandler) ListTeamHeroes(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	heroes, err := h.teamService.ListHeroes(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, heroes)
}

// CreateHero handles POST /api/heroes
// @Summary      Create hero
// @Tags         heroes
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateHeroRequest  true  "Payload"
// @Success      201  {object}  service.HeroResponse
// @Failure      400  {object}  response.DetailResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/heroes [post]
func (h *TeamHandler) CreateHero(c *gin.Context) {
	var req service.CreateHeroRequest
	if !bindJSON(c, &req) {
		return
	}
	hero, err := h.heroService.CreateHero(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, hero)
}

// GetHero handles GET /api/heroes/{uuid}
// @Summary      Get hero
// @Tags         heroes
// @Produce      json
// @Param        uuid  path  string  true  "Hero UUID"
// @Success      200  {object}  service.HeroResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/heroes/{uuid} [get]
func (h *TeamHandler) GetHero(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	hero, err := h.heroService.GetHero(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, hero)
}

// UpdateHero handles PUT /api/heroes/{uuid}
// @Summary      Update hero
// @Tags         heroes
// @Accept       json
// @Produce      json
// @Param        uuid  path  string  true  "Hero UUID"
// @Param        payload  body  service.UpdateHeroRequest  true  "Payload"
// @Success      200  {object}  service.HeroResponse
// @Failure      400  {object}  response.DetailResponse
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/heroes/{uuid} [put]
func (h *TeamHandler) UpdateHero(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	var req service.UpdateHeroRequest
	if !bindJSON(c, &req) {
		return
	}
	hero, err := h.heroService.UpdateHero(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, hero)
}

// DeleteHero handles DELETE /api/heroes/{uuid}
// @Summary      Delete hero
// @Tags         heroes
// @Produce      json
// @Param        uuid  path  string  true  "Hero UUID"
// @Success      204
// @Failure      404  {object}  response.DetailResponse
// @Failure      422  {object}  response.DetailResponse
// @Router       /api/heroes/{uuid} [delete]
func (h *TeamHandler) DeleteHero(c *gin.Context) {
	id, ok := parseUUID(c, "uuid")
	if !ok {
		return
	}
	if err := h.heroService.DeleteHero(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
