package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/alexanderramin/lotline/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	log       *bytes.Buffer
	users     UserService
	projects  ProjectService
	stages    StageService
	items     ItemService
	sprints   SprintService
	issues    IssueService
	reorder   ReorderService
	inventory InventoryService

	issueRepo repository.IssueRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	return newTestEnvWithUoW(t, database, uow)
}

func newTestEnvWithUoW(t *testing.T, database *sql.DB, uow db.UnitOfWork) *testEnv {
	t.Helper()
	log := new(bytes.Buffer)
	obs := NewLogUseCaseObserver(log)

	projRepo := repository.NewSQLiteProjectRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	itemRepo := repository.NewSQLiteItemRepo(database)
	sprintRepo := repository.NewSQLiteSprintRepo(database)
	issueRepo := repository.NewSQLiteIssueRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)

	return &testEnv{
		db:        database,
		uow:       uow,
		log:       log,
		users:     NewUserService(userRepo, uow, obs),
		projects:  NewProjectService(projRepo, uow, obs),
		stages:    NewStageService(projRepo, stageRepo, uow, obs),
		items:     NewItemService(projRepo, itemRepo, uow, obs),
		sprints:   NewSprintService(projRepo, sprintRepo, uow, obs),
		issues:    NewIssueService(projRepo, issueRepo, sprintRepo, uow, obs),
		reorder:   NewReorderService(uow, true, obs),
		inventory: NewInventoryService(projRepo, stageRepo, sprintRepo, issueRepo, ""),
		issueRepo: issueRepo,
	}
}

// plant is a seeded project: an admin, a member, the seed stages and one item.
type plant struct {
	admin   domain.Actor
	member  domain.Actor
	project *domain.Project
	stages  map[string]*domain.Stage
	item    *domain.Item
}

func (e *testEnv) seedPlant(t *testing.T) plant {
	t.Helper()
	ctx := context.Background()

	adminUser, err := e.users.EnsureUser(ctx, "ext-admin", "admin@plant.io", "Admin")
	require.NoError(t, err)
	memberUser, err := e.users.EnsureUser(ctx, "ext-member", "member@plant.io", "Member")
	require.NoError(t, err)
	admin := testutil.NewTestAdmin(adminUser.ID)
	member := testutil.NewTestActor(memberUser.ID)

	proj, err := e.projects.Create(ctx, admin, app.CreateProjectRequest{Name: "Plant", Key: "PLT"})
	require.NoError(t, err)

	list, err := e.stages.List(ctx, admin, proj.ID)
	require.NoError(t, err)
	stages := make(map[string]*domain.Stage, len(list))
	for _, s := range list {
		stages[s.Key] = s
	}

	item, err := e.items.Create(ctx, admin, proj.ID, "Bolt-A", 10)
	require.NoError(t, err)

	return plant{admin: admin, member: member, project: proj, stages: stages, item: item}
}

// createIssue opens a batch of qty at stageKey as the member.
func (e *testEnv) createIssue(t *testing.T, p plant, stageKey string, qty int, opts ...func(*app.CreateIssueRequest)) *domain.IssueView {
	t.Helper()
	req := app.CreateIssueRequest{
		ItemID:   p.item.ID,
		StageID:  p.stages[stageKey].ID,
		Priority: domain.PriorityMedium,
		Quantity: qty,
		Unit:     domain.UnitPieces,
	}
	for _, opt := range opts {
		opt(&req)
	}
	v, err := e.issues.Create(context.Background(), p.member, p.project.ID, req)
	require.NoError(t, err)
	return v
}

func inSprint(sprintID string) func(*app.CreateIssueRequest) {
	return func(r *app.CreateIssueRequest) {
		r.SprintID = &sprintID
	}
}

func (e *testEnv) countIssues(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM issues`).Scan(&n))
	return n
}

func (e *testEnv) totalQuantity(t *testing.T, itemID string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COALESCE(SUM(quantity), 0) FROM issues WHERE item_id = ?`, itemID).Scan(&n))
	return n
}

func (e *testEnv) move(p plant, issueID, stageKey string, qty int) (*app.TransitionResult, error) {
	return e.issues.UpdateIssue(context.Background(), p.member, issueID, app.UpdateIssueRequest{
		StatusID: p.stages[stageKey].ID,
		Quantity: qty,
	})
}
