package api

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/dto"
	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/usecases"
	"github.com/mimichq/mimic-backend/utils"
)

func agentIdParam(c *gin.Context) (uuid.UUID, error) {
	agentId, err := uuid.Parse(c.Param("agent_id"))
	if err != nil {
		return uuid.Nil, errors.Wrap(models.BadParameterError, "invalid agent id")
	}
	return agentId, nil
}

func handleCreateAgent(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		creds, found := utils.CredentialsFromContext(c.Request.Context())
		if !found {
			presentError(c, errors.Wrap(models.UnAuthorizedError, "missing credentials"))
			return
		}

		var body dto.CreateAgentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		// Api key callers always create in the key's team.
		teamId := body.TeamId
		if creds.TeamId != uuid.Nil {
			teamId = creds.TeamId
		}

		input, err := dto.AdaptCreateAgentInput(body, teamId, creds.UserId)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		agent, err := usecase.CreateAgent(c.Request.Context(), input)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusCreated, gin.H{"agent": dto.AdaptAgentDto(agent)})
	}
}

func handleListAgents(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		filters, pagination, err := parseAgentListParams(c)
		if presentError(c, err) {
			return
		}
		if creds, found := utils.CredentialsFromContext(c.Request.Context()); found &&
			creds.TeamId != uuid.Nil {
			filters.TeamId = &creds.TeamId
		}

		usecase := uc.NewAgentUsecase()
		page, err := usecase.ListAgents(c.Request.Context(), filters, pagination)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptAgentPageDto(page))
	}
}

func parseAgentListParams(c *gin.Context) (models.AgentFilters, models.Pagination, error) {
	var filters models.AgentFilters
	var pagination models.Pagination

	if teamId := c.Query("team_id"); teamId != "" {
		parsed, err := uuid.Parse(teamId)
		if err != nil {
			return filters, pagination, errors.Wrap(models.BadParameterError, "invalid team id")
		}
		filters.TeamId = &parsed
	}
	if status := c.Query("status"); status != "" {
		parsed := models.AgentStatusFromString(status)
		if parsed == "" {
			return filters, pagination, errors.Wrapf(models.BadParameterError,
				"unknown status %q", status)
		}
		filters.Status = &parsed
	}
	if agentType := c.Query("agent_type"); agentType != "" {
		parsed := models.AgentTypeFromString(agentType)
		if parsed == "" {
			return filters, pagination, errors.Wrapf(models.BadParameterError,
				"unknown agent type %q", agentType)
		}
		filters.AgentType = &parsed
	}
	if platform := c.Query("platform"); platform != "" {
		filters.Platform = &platform
	}

	if limit := c.Query("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed <= 0 {
			return filters, pagination, errors.Wrap(models.BadParameterError, "invalid limit")
		}
		pagination.Limit = parsed
	}
	cursor, err := dto.DecodeCursor(c.Query("cursor"))
	if err != nil {
		return filters, pagination, err
	}
	pagination.Cursor = cursor

	return filters, pagination, nil
}

// ensureAgentInTeam hides agents of other teams from team-scoped callers. A
// mismatch is reported as not found so that agent ids do not leak across
// teams. Session callers are not team-scoped and pass through.
func ensureAgentInTeam(c *gin.Context, uc usecases.Usecases, agentId uuid.UUID) error {
	creds, found := utils.CredentialsFromContext(c.Request.Context())
	if !found || creds.TeamId == uuid.Nil {
		return nil
	}
	agent, err := uc.NewAgentUsecase().GetAgent(c.Request.Context(), agentId)
	if err != nil {
		return err
	}
	if agent.TeamId != creds.TeamId {
		return errors.Wrap(models.NotFoundError, "agent not found")
	}
	return nil
}

func handleGetAgent(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}
		if err := ensureAgentInTeam(c, uc, agentId); presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		agent, err := usecase.GetAgent(c.Request.Context(), agentId)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"agent": dto.AdaptAgentDto(agent)})
	}
}

func handleUpdateAgent(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}
		if err := ensureAgentInTeam(c, uc, agentId); presentError(c, err) {
			return
		}

		var body dto.UpdateAgentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		input, err := dto.AdaptUpdateAgentInput(body)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		agent, err := usecase.UpdateAgent(c.Request.Context(), agentId, input)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"agent": dto.AdaptAgentDto(agent)})
	}
}

func handleDeleteAgent(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}
		if err := ensureAgentInTeam(c, uc, agentId); presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		err = usecase.DeleteAgent(c.Request.Context(), agentId)
		if presentError(c, err) {
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func handleAgentTransition(uc usecases.Usecases, target models.AgentStatus) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		agent, err := usecase.TransitionAgentStatus(c.Request.Context(), agentId, target)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"agent": dto.AdaptAgentDto(agent)})
	}
}

func handleGetAgentPersona(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		persona, err := usecase.GetPersona(c.Request.Context(), agentId)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"persona": dto.AdaptPersonaDto(persona)})
	}
}

func handleListAgentEvaluations(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		evaluations, err := usecase.ListEvaluations(c.Request.Context(), agentId)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"evaluations": utils.Map(evaluations, dto.AdaptEvaluationDto),
		})
	}
}

func handleGetAgentBootstrapRun(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		agentId, err := agentIdParam(c)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewAgentUsecase()
		run, err := usecase.GetBootstrapRun(c.Request.Context(), agentId)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"bootstrap_run": dto.AdaptBootstrapRunDto(run)})
	}
}
