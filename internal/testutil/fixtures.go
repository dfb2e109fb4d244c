package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/google/uuid"
)

var testKeyCounter atomic.Int64

// TestOrg is the organization fixtures default to.
const TestOrg = "org-test"

func NewTestUser(name string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:         uuid.New().String(),
		ExternalID: "ext-" + uuid.New().String()[:8],
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithOrganization(orgID string) ProjectOption {
	return func(p *domain.Project) {
		p.OrganizationID = orgID
	}
}

func WithKey(key string) ProjectOption {
	return func(p *domain.Project) {
		p.Key = key
	}
}

func defaultKey() string {
	return fmt.Sprintf("P%03d", testKeyCounter.Add(1))
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: TestOrg,
		Name:           name,
		Key:            defaultKey(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stage options
type StageOption func(*domain.Stage)

func WithTerminal() StageOption {
	return func(s *domain.Stage) {
		s.IsTerminal = true
	}
}

func WithProtected() StageOption {
	return func(s *domain.Stage) {
		s.IsProtected = true
	}
}

func NewTestStage(projectID, name string, order int, opts ...StageOption) *domain.Stage {
	s := &domain.Stage{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Key:       domain.StageKey(name),
		Order:     order,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestStages returns the seed pipeline for projectID with ids assigned.
func NewTestStages(projectID string) []*domain.Stage {
	stages := domain.DefaultStages(projectID)
	for _, s := range stages {
		s.ID = uuid.New().String()
	}
	return stages
}

func NewTestItem(projectID, name string, reorderValue int) *domain.Item {
	return &domain.Item{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Name:         name,
		ReorderValue: reorderValue,
	}
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintStatus(s domain.SprintStatus) SprintOption {
	return func(sp *domain.Sprint) {
		sp.Status = s
	}
}

func WithWindow(start, end time.Time) SprintOption {
	return func(sp *domain.Sprint) {
		sp.StartDate = start
		sp.EndDate = end
	}
}

// NewTestSprint returns a PLANNED sprint whose window spans now.
func NewTestSprint(projectID, name string, opts ...SprintOption) *domain.Sprint {
	now := time.Now().UTC()
	s := &domain.Sprint{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 13),
		Status:    domain.SprintPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue options
type IssueOption func(*domain.Issue)

func WithQuantity(q int) IssueOption {
	return func(i *domain.Issue) {
		i.Quantity = q
	}
}

func WithOrder(o int) IssueOption {
	return func(i *domain.Issue) {
		i.Order = o
	}
}

func WithPriority(p domain.Priority) IssueOption {
	return func(i *domain.Issue) {
		i.Priority = p
	}
}

func WithUnit(u domain.Unit) IssueOption {
	return func(i *domain.Issue) {
		i.Unit = u
	}
}

func WithSprint(sprintID string) IssueOption {
	return func(i *domain.Issue) {
		i.SprintID = &sprintID
	}
}

func WithAssignee(userID string) IssueOption {
	return func(i *domain.Issue) {
		i.AssigneeID = &userID
	}
}

func WithParent(parentID string) IssueOption {
	return func(i *domain.Issue) {
		i.ParentID = &parentID
	}
}

func WithSplit() IssueOption {
	return func(i *domain.Issue) {
		i.IsSplit = true
	}
}

func WithTrack(stageIDs ...string) IssueOption {
	return func(i *domain.Issue) {
		i.Track = stageIDs
	}
}

func WithDescription(d string) IssueOption {
	return func(i *domain.Issue) {
		i.Description = d
	}
}

// NewTestIssue returns a 10-piece MEDIUM batch at stageID whose track holds
// only that stage.
func NewTestIssue(projectID, itemID, stageID, reporterID string, opts ...IssueOption) *domain.Issue {
	now := time.Now().UTC().Truncate(time.Second)
	i := &domain.Issue{
		ID:         uuid.New().String(),
		ItemID:     itemID,
		StatusID:   stageID,
		Priority:   domain.PriorityMedium,
		ReporterID: reporterID,
		ProjectID:  projectID,
		Track:      []string{stageID},
		Quantity:   10,
		Unit:       domain.UnitPieces,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewTestActor returns a member of TestOrg.
func NewTestActor(userID string) domain.Actor {
	return domain.Actor{UserID: userID, OrganizationID: TestOrg, Role: domain.RoleMember}
}

// NewTestAdmin returns an admin of TestOrg.
func NewTestAdmin(userID string) domain.Actor {
	return domain.Actor{UserID: userID, OrganizationID: TestOrg, Role: domain.RoleAdmin}
}
