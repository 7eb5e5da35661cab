package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/usecases"
)

func addRoutes(r *gin.Engine, uc usecases.Usecases, auth Authentication) {
	r.GET("/liveness", handleLivenessProbe(uc))

	r.POST("/auth/magic-link", handleSendMagicLink(uc))
	r.GET("/auth/magic-link/verify", handleVerifyMagicLink(uc))

	r.POST("/webhooks/identity", handleIdentityWebhook(uc))

	// Machine callers (the CLI) authenticate with an api key and only ever
	// see their own team's agents.
	cli := r.Group("/cli", auth.ApiKeyMiddleware)
	cli.POST("/agents", handleCreateAgent(uc))
	cli.GET("/agents", handleListAgents(uc))
	cli.GET("/agents/:agent_id", handleGetAgent(uc))
	cli.PATCH("/agents/:agent_id", handleUpdateAgent(uc))
	cli.DELETE("/agents/:agent_id", handleDeleteAgent(uc))

	router := r.Use(auth.Middleware)

	router.POST("/agents", handleCreateAgent(uc))
	router.GET("/agents", handleListAgents(uc))
	router.GET("/agents/:agent_id", handleGetAgent(uc))
	router.PATCH("/agents/:agent_id", handleUpdateAgent(uc))
	router.DELETE("/agents/:agent_id", handleDeleteAgent(uc))

	router.POST("/agents/:agent_id/activate", handleAgentTransition(uc, models.AgentStatusActive))
	router.POST("/agents/:agent_id/pause", handleAgentTransition(uc, models.AgentStatusPaused))
	router.POST("/agents/:agent_id/archive", handleAgentTransition(uc, models.AgentStatusArchived))

	router.GET("/agents/:agent_id/persona", handleGetAgentPersona(uc))
	router.GET("/agents/:agent_id/evaluations", handleListAgentEvaluations(uc))
	router.GET("/agents/:agent_id/bootstrap", handleGetAgentBootstrapRun(uc))
}
