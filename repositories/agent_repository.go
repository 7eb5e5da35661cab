package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

func (r *MimicDbRepository) CreateAgent(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
	input models.CreateAgentInput,
) error {
	platformConfig, err := json.Marshal(input.PlatformConfig.Raw)
	if err != nil {
		return errors.Wrap(err, "unable to marshal platform_config")
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_AGENTS).
			Columns(
				"id",
				"team_id",
				"created_by",
				"name",
				"description",
				"agent_type",
				"platform",
				"platform_config",
				"status",
				"is_active",
			).
			Values(
				agentId,
				input.TeamId,
				input.CreatedBy,
				input.Name,
				input.Description,
				input.AgentType,
				input.Platform,
				platformConfig,
				input.Status,
				input.IsActive,
			),
	)
}

func (r *MimicDbRepository) GetAgentById(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
) (models.Agent, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectAgentColumn...).
			From(dbmodels.TABLE_AGENTS).
			Where(squirrel.Eq{"id": agentId}).
			Where(squirrel.Eq{"deleted_at": nil}),
		dbmodels.AdaptAgent,
	)
}

// ListAgents pages through agents in (created_at, id) descending order. One
// row beyond the limit is fetched to compute HasMore.
func (r *MimicDbRepository) ListAgents(
	ctx context.Context,
	exec Executor,
	filters models.AgentFilters,
	pagination models.Pagination,
) (models.Page[models.Agent], error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAgentColumn...).
		From(dbmodels.TABLE_AGENTS).
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(pagination.Limit + 1))

	if filters.TeamId != nil {
		query = query.Where(squirrel.Eq{"team_id": *filters.TeamId})
	}
	if filters.Status != nil {
		query = query.Where(squirrel.Eq{"status": *filters.Status})
	}
	if filters.AgentType != nil {
		query = query.Where(squirrel.Eq{"agent_type": *filters.AgentType})
	}
	if filters.Platform != nil {
		query = query.Where(squirrel.Eq{"platform": *filters.Platform})
	}
	if !pagination.Cursor.IsZero() {
		query = query.Where(squirrel.Expr("(created_at, id) < (?, ?)",
			pagination.Cursor.CreatedAt, pagination.Cursor.Id))
	}

	agents, err := SqlToListOfModels(ctx, exec, query, dbmodels.AdaptAgent)
	if err != nil {
		return models.Page[models.Agent]{}, err
	}

	page := models.Page[models.Agent]{Items: agents}
	if len(agents) > pagination.Limit {
		page.Items = agents[:pagination.Limit]
		page.HasMore = true
	}
	return page, nil
}

func (r *MimicDbRepository) UpdateAgent(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
	input models.UpdateAgentInput,
) error {
	query := NewQueryBuilder().Update(dbmodels.TABLE_AGENTS).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": agentId}).
		Where(squirrel.Eq{"deleted_at": nil})

	if input.Name != nil {
		query = query.Set("name", *input.Name)
	}
	if input.Description != nil {
		query = query.Set("description", *input.Description)
	}
	if input.AgentType != nil {
		query = query.Set("agent_type", *input.AgentType)
	}
	if input.Platform != nil {
		query = query.Set("platform", *input.Platform)
	}
	if input.PlatformConfig != nil {
		platformConfig, err := json.Marshal(input.PlatformConfig.Raw)
		if err != nil {
			return errors.Wrap(err, "unable to marshal platform_config")
		}
		query = query.Set("platform_config", platformConfig)
	}
	if input.Status != nil {
		query = query.Set("status", *input.Status)
	}
	if input.IsActive != nil {
		query = query.Set("is_active", *input.IsActive)
	}

	return ExecBuilder(ctx, exec, query)
}

func (r *MimicDbRepository) UpdateAgentStatus(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
	status models.AgentStatus,
	isActive bool,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(dbmodels.TABLE_AGENTS).
			Set("status", status).
			Set("is_active", isActive).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": agentId}).
			Where(squirrel.Eq{"deleted_at": nil}),
	)
}

func (r *MimicDbRepository) SoftDeleteAgent(
	ctx context.Context,
	exec Executor,
	agentId uuid.UUID,
	now time.Time,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Update(dbmodels.TABLE_AGENTS).
			Set("status", models.AgentStatusArchived).
			Set("is_active", false).
			Set("deleted_at", now).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": agentId}).
			Where(squirrel.Eq{"deleted_at": nil}),
	)
}
