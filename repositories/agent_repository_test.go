package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/repositories/dbmodels"
)

func newMockExecutor(t *testing.T) (Executor, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return PgExecutor{exec: pool}, pool
}

func agentRow(id uuid.UUID, createdAt time.Time) []any {
	return []any{
		id,
		uuid.New(),
		uuid.New(),
		"Support bot",
		"Handles support chats",
		"chat",
		"whatsapp",
		[]byte(`{"phone_number":"+33600000000"}`),
		"draft",
		false,
		createdAt,
		createdAt,
		nil,
	}
}

func TestGetAgentById_NotFound(t *testing.T) {
	exec, mock := newMockExecutor(t)
	repo := MimicDbRepository{}

	agentId := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM agents WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs(agentId).
		WillReturnRows(pgxmock.NewRows(dbmodels.SelectAgentColumn))

	_, err := repo.GetAgentById(context.TODO(), exec, agentId)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.ErrorIs(t, err, models.NotFoundError)
}

func TestListAgents_TrimsToLimitAndSetsHasMore(t *testing.T) {
	exec, mock := newMockExecutor(t)
	repo := MimicDbRepository{}

	now := time.Now()
	rows := pgxmock.NewRows(dbmodels.SelectAgentColumn).
		AddRow(agentRow(uuid.New(), now)...).
		AddRow(agentRow(uuid.New(), now.Add(-time.Minute))...).
		AddRow(agentRow(uuid.New(), now.Add(-2*time.Minute))...)

	// One row beyond the limit is requested to compute HasMore.
	mock.ExpectQuery(`SELECT .* FROM agents WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC LIMIT 3`).
		WillReturnRows(rows)

	page, err := repo.ListAgents(context.TODO(), exec,
		models.AgentFilters{}, models.Pagination{Limit: 2})

	assert.NoError(t, mock.ExpectationsWereMet())
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
}

func TestListAgents_CursorAddsContinuationPredicate(t *testing.T) {
	exec, mock := newMockExecutor(t)
	repo := MimicDbRepository{}

	cursor := models.Cursor{Id: uuid.New(), CreatedAt: time.Now()}
	mock.ExpectQuery(`SELECT .* FROM agents WHERE deleted_at IS NULL AND \(created_at, id\) < \(\$1, \$2\)`).
		WithArgs(cursor.CreatedAt, cursor.Id).
		WillReturnRows(pgxmock.NewRows(dbmodels.SelectAgentColumn))

	page, err := repo.ListAgents(context.TODO(), exec,
		models.AgentFilters{}, models.Pagination{Limit: 10, Cursor: cursor})

	assert.NoError(t, mock.ExpectationsWereMet())
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}
