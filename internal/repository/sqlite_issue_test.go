package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	issue := b.issue("PURCHASE",
		testutil.WithQuantity(75),
		testutil.WithUnit(domain.UnitKilogram),
		testutil.WithPriority(domain.PriorityUrgent),
		testutil.WithTrack(b.stages["TODO"].ID, b.stages["PURCHASE"].ID),
		testutil.WithDescription("steel rod"),
		testutil.WithAssignee(b.user.ID),
	)
	require.NoError(t, repo.Create(ctx, issue))

	fetched, err := repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, fetched.Quantity)
	assert.Equal(t, domain.UnitKilogram, fetched.Unit)
	assert.Equal(t, domain.PriorityUrgent, fetched.Priority)
	assert.Equal(t, []string{b.stages["TODO"].ID, b.stages["PURCHASE"].ID}, fetched.Track)
	assert.Equal(t, "steel rod", fetched.Description)
	require.NotNil(t, fetched.AssigneeID)
	assert.Equal(t, b.user.ID, *fetched.AssigneeID)
	assert.Nil(t, fetched.SprintID)
	assert.Nil(t, fetched.ParentID)
	assert.False(t, fetched.IsSplit)
	assert.True(t, issue.CreatedAt.Equal(fetched.CreatedAt))
}

func TestIssueRepo_GetView_JoinsRelations(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	unassigned := b.issue("TODO")
	require.NoError(t, repo.Create(ctx, unassigned))

	v, err := repo.GetView(ctx, unassigned.ID)
	require.NoError(t, err)
	assert.Nil(t, v.Assignee)
	require.NotNil(t, v.Reporter)
	assert.Equal(t, "Reporter", v.Reporter.Name)
	assert.Equal(t, "Bolt-A", v.Item.Name)
	assert.Equal(t, "TODO", v.Status.Key)

	assigned := b.issue("STORE", testutil.WithAssignee(b.user.ID))
	require.NoError(t, repo.Create(ctx, assigned))
	v, err = repo.GetView(ctx, assigned.ID)
	require.NoError(t, err)
	require.NotNil(t, v.Assignee)
	assert.Equal(t, b.user.ID, v.Assignee.ID)

	_, err = repo.GetView(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueRepo_MaxOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	last, err := repo.MaxOrder(ctx, b.project.ID, b.stages["TODO"].ID)
	require.NoError(t, err)
	assert.Equal(t, -1, last, "empty column")

	require.NoError(t, repo.Create(ctx, b.issue("TODO", testutil.WithOrder(0))))
	require.NoError(t, repo.Create(ctx, b.issue("TODO", testutil.WithOrder(4))))
	require.NoError(t, repo.Create(ctx, b.issue("STORE", testutil.WithOrder(9))))

	last, err = repo.MaxOrder(ctx, b.project.ID, b.stages["TODO"].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, last)
}

func TestIssueRepo_DecrementQuantity_Guarded(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	issue := b.issue("PURCHASE", testutil.WithQuantity(100))
	require.NoError(t, repo.Create(ctx, issue))

	issue.Quantity = 60
	require.NoError(t, repo.DecrementQuantity(ctx, issue, 100))

	fetched, err := repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, fetched.Quantity)
	assert.True(t, fetched.IsSplit)

	// A stale expectation loses.
	issue.Quantity = 20
	err = repo.DecrementQuantity(ctx, issue, 100)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	fetched, err = repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, fetched.Quantity)
}

func TestIssueRepo_DecrementToZeroRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	issue := b.issue("PURCHASE", testutil.WithQuantity(5))
	require.NoError(t, repo.Create(ctx, issue))

	issue.Quantity = 0
	assert.Error(t, repo.DecrementQuantity(ctx, issue, 5), "quantity > 0 is enforced by the schema")
}

func TestIssueRepo_UpdateTransitionFields(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	issue := b.issue("TODO", testutil.WithAssignee(b.user.ID))
	require.NoError(t, repo.Create(ctx, issue))

	issue.StatusID = b.stages["PURCHASE"].ID
	issue.Track = append(issue.Track, issue.StatusID)
	issue.Priority = domain.PriorityHigh
	issue.AssigneeID = nil
	issue.UpdatedAt = issue.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, issue))

	fetched, err := repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, b.stages["PURCHASE"].ID, fetched.StatusID)
	assert.Equal(t, []string{b.stages["TODO"].ID, b.stages["PURCHASE"].ID}, fetched.Track)
	assert.Equal(t, domain.PriorityHigh, fetched.Priority)
	assert.Nil(t, fetched.AssigneeID)
	assert.True(t, issue.UpdatedAt.Equal(fetched.UpdatedAt))

	missing := b.issue("TODO")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestIssueRepo_DeleteParentKeepsChildren(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	parent := b.issue("PURCHASE", testutil.WithSplit())
	require.NoError(t, repo.Create(ctx, parent))
	child := b.issue("STORE", testutil.WithParent(parent.ID))
	require.NoError(t, repo.Create(ctx, child))

	children, err := repo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	require.NoError(t, repo.Delete(ctx, parent.ID))

	fetched, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.ParentID)

	assert.ErrorIs(t, repo.Delete(ctx, parent.ID), ErrNotFound)
}

func TestIssueRepo_ListViewsBySprint_Ordering(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	sprint := testutil.NewTestSprint(b.project.ID, "Week 1")
	require.NoError(t, NewSQLiteSprintRepo(database).Create(ctx, sprint))
	repo := NewSQLiteIssueRepo(database)

	for _, row := range []struct {
		stage string
		order int
	}{{"TODO", 0}, {"TODO", 2}, {"TODO", 1}, {"STORE", 0}, {"STORE", 1}} {
		require.NoError(t, repo.Create(ctx, b.issue(row.stage, testutil.WithOrder(row.order), testutil.WithSprint(sprint.ID))))
	}
	require.NoError(t, repo.Create(ctx, b.issue("TODO", testutil.WithOrder(7)))) // outside sprint

	views, err := repo.ListViewsBySprint(ctx, sprint.ID)
	require.NoError(t, err)
	require.Len(t, views, 5)

	for i := 1; i < len(views); i++ {
		prev, cur := views[i-1], views[i]
		require.LessOrEqual(t, prev.StatusID, cur.StatusID, "status ascending")
		if prev.StatusID == cur.StatusID {
			assert.Greater(t, prev.Order, cur.Order, "order descending within a status")
		}
	}
}

func TestIssueRepo_ListViewsByProject_BoardOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	require.NoError(t, repo.Create(ctx, b.issue("STORE", testutil.WithOrder(0))))
	require.NoError(t, repo.Create(ctx, b.issue("TODO", testutil.WithOrder(1))))
	require.NoError(t, repo.Create(ctx, b.issue("TODO", testutil.WithOrder(0))))

	views, err := repo.ListViewsByProject(ctx, b.project.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "TODO", views[0].Status.Key)
	assert.Equal(t, 0, views[0].Order)
	assert.Equal(t, "TODO", views[1].Status.Key)
	assert.Equal(t, 1, views[1].Order)
	assert.Equal(t, "STORE", views[2].Status.Key)
}

func TestIssueRepo_ListViewsForUser(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)
	userRepo := NewSQLiteUserRepo(database)

	other := testutil.NewTestUser("Other")
	require.NoError(t, userRepo.Create(ctx, other))

	reported := b.issue("TODO")
	reported.UpdatedAt = reported.UpdatedAt.Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, reported))

	assigned := testutil.NewTestIssue(b.project.ID, b.item.ID, b.stages["STORE"].ID, other.ID, testutil.WithAssignee(b.user.ID))
	require.NoError(t, repo.Create(ctx, assigned))

	unrelated := testutil.NewTestIssue(b.project.ID, b.item.ID, b.stages["STORE"].ID, other.ID)
	require.NoError(t, repo.Create(ctx, unrelated))

	views, err := repo.ListViewsForUser(ctx, b.user.ID, testutil.TestOrg)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, assigned.ID, views[0].ID, "most recently updated first")
	assert.Equal(t, reported.ID, views[1].ID)

	views, err = repo.ListViewsForUser(ctx, b.user.ID, "org-other")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestIssueRepo_UpdatePositionAndColumnOrders(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)

	a := b.issue("TODO", testutil.WithOrder(0))
	c := b.issue("TODO", testutil.WithOrder(1))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, c))

	store := b.stages["STORE"].ID
	require.NoError(t, repo.UpdatePosition(ctx, IssuePosition{
		ID: c.ID, StatusID: store, Order: 0, Track: []string{b.stages["TODO"].ID, store},
	}, time.Now()))

	orders, err := repo.ListColumnOrders(ctx, b.project.ID, b.stages["TODO"].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, orders)
	orders, err = repo.ListColumnOrders(ctx, b.project.ID, store)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, orders)

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.stages["TODO"].ID, store}, fetched.Track)

	err = repo.UpdatePosition(ctx, IssuePosition{ID: "missing", StatusID: store}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueRepo_InventoryRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	b := seedBoard(t, database)
	repo := NewSQLiteIssueRepo(database)
	itemRepo := NewSQLiteItemRepo(database)

	idle := testutil.NewTestItem(b.project.ID, "Zinc sheet", 3)
	require.NoError(t, itemRepo.Create(ctx, idle))

	sprint := testutil.NewTestSprint(b.project.ID, "Week 1")
	require.NoError(t, NewSQLiteSprintRepo(database).Create(ctx, sprint))

	require.NoError(t, repo.Create(ctx, b.issue("STORE", testutil.WithQuantity(4), testutil.WithSprint(sprint.ID))))
	require.NoError(t, repo.Create(ctx, b.issue("STORE", testutil.WithQuantity(6))))
	require.NoError(t, repo.Create(ctx, b.issue("PURCHASE", testutil.WithQuantity(60))))

	rows, err := repo.InventoryRows(ctx, b.project.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bolt-A", rows[0].ItemName)
	assert.Equal(t, "PURCHASE", rows[0].StageKey)
	assert.Equal(t, 60, rows[0].Quantity)
	assert.Equal(t, "STORE", rows[1].StageKey)
	assert.Equal(t, 10, rows[1].Quantity)
	assert.Equal(t, "Zinc sheet", rows[2].ItemName)
	assert.Equal(t, "", rows[2].StageKey)
	assert.Equal(t, 0, rows[2].Quantity)

	sprintID := sprint.ID
	rows, err = repo.InventoryRows(ctx, b.project.ID, &sprintID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "STORE", rows[0].StageKey)
	assert.Equal(t, 4, rows[0].Quantity)
	assert.Equal(t, "", rows[1].StageKey)
}
