package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/testutil"
	"github.com/stretchr/testify/require"
)

// board is the minimum graph an issue needs: a reporter, a project with the
// seed stages, and one item.
type board struct {
	user    *domain.User
	project *domain.Project
	stages  map[string]*domain.Stage // by key
	item    *domain.Item
}

func seedBoard(t *testing.T, conn db.DBTX) board {
	t.Helper()
	ctx := context.Background()

	user := testutil.NewTestUser("Reporter")
	require.NoError(t, NewSQLiteUserRepo(conn).Create(ctx, user))

	proj := testutil.NewTestProject("Plant")
	require.NoError(t, NewSQLiteProjectRepo(conn).Create(ctx, proj))

	stageRepo := NewSQLiteStageRepo(conn)
	stages := make(map[string]*domain.Stage)
	for _, s := range testutil.NewTestStages(proj.ID) {
		require.NoError(t, stageRepo.Create(ctx, s))
		stages[s.Key] = s
	}

	item := testutil.NewTestItem(proj.ID, "Bolt-A", 10)
	require.NoError(t, NewSQLiteItemRepo(conn).Create(ctx, item))

	return board{user: user, project: proj, stages: stages, item: item}
}

func (b board) issue(stageKey string, opts ...testutil.IssueOption) *domain.Issue {
	return testutil.NewTestIssue(b.project.ID, b.item.ID, b.stages[stageKey].ID, b.user.ID, opts...)
}
