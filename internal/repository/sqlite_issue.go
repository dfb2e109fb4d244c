package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
)

// SQLiteIssueRepo implements IssueRepo using a SQLite database.
type SQLiteIssueRepo struct {
	db db.DBTX
}

// NewSQLiteIssueRepo creates a new SQLiteIssueRepo.
func NewSQLiteIssueRepo(conn db.DBTX) *SQLiteIssueRepo {
	return &SQLiteIssueRepo{db: conn}
}

const issueColumns = `id, item_id, description, status_id, order_index, priority, assignee_id,
	reporter_id, project_id, sprint_id, track, quantity, unit, parent_id, is_split, created_at, updated_at`

const issueColumnsAliased = `i.id, i.item_id, i.description, i.status_id, i.order_index, i.priority, i.assignee_id,
	i.reporter_id, i.project_id, i.sprint_id, i.track, i.quantity, i.unit, i.parent_id, i.is_split, i.created_at, i.updated_at`

// issueViewSelect joins an issue with the rows a board renders next to it.
const issueViewSelect = `SELECT ` + issueColumnsAliased + `,
		it.id, it.project_id, it.name, it.reorder_value,
		s.id, s.project_id, s.name, s.key, s.order_index, s.is_protected, s.is_terminal,
		r.id, r.external_id, r.email, r.name, r.created_at, r.updated_at,
		a.id, a.external_id, a.email, a.name, a.created_at, a.updated_at
	FROM issues i
	JOIN items it ON it.id = i.item_id
	JOIN stages s ON s.id = i.status_id
	JOIN users r ON r.id = i.reporter_id
	LEFT JOIN users a ON a.id = i.assignee_id`

func (r *SQLiteIssueRepo) Create(ctx context.Context, i *domain.Issue) error {
	track, err := encodeTrack(i.Track)
	if err != nil {
		return err
	}
	query := `INSERT INTO issues (` + issueColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		i.ID,
		i.ItemID,
		i.Description,
		i.StatusID,
		i.Order,
		string(i.Priority),
		nullableString(i.AssigneeID),
		i.ReporterID,
		i.ProjectID,
		nullableString(i.SprintID),
		track,
		i.Quantity,
		string(i.Unit),
		nullableString(i.ParentID),
		boolToInt(i.IsSplit),
		formatTime(i.CreatedAt),
		formatTime(i.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting issue: %w", err)
	}
	return nil
}

func (r *SQLiteIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = ?`
	var row issueRow
	if err := r.db.QueryRowContext(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("issue: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}
	return row.issue()
}

func (r *SQLiteIssueRepo) GetView(ctx context.Context, id string) (*domain.IssueView, error) {
	row := r.db.QueryRowContext(ctx, issueViewSelect+` WHERE i.id = ?`, id)
	v, err := scanIssueView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue: %w", ErrNotFound)
	}
	return v, err
}

func (r *SQLiteIssueRepo) MaxOrder(ctx context.Context, projectID, stageID string) (int, error) {
	var last int
	query := `SELECT COALESCE(MAX(order_index), -1) FROM issues WHERE project_id = ? AND status_id = ?`
	if err := r.db.QueryRowContext(ctx, query, projectID, stageID).Scan(&last); err != nil {
		return 0, fmt.Errorf("reading max order: %w", err)
	}
	return last, nil
}

func (r *SQLiteIssueRepo) Update(ctx context.Context, i *domain.Issue) error {
	track, err := encodeTrack(i.Track)
	if err != nil {
		return err
	}
	query := `UPDATE issues SET status_id = ?, priority = ?, assignee_id = ?, track = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.StatusID,
		string(i.Priority),
		nullableString(i.AssigneeID),
		track,
		formatTime(i.UpdatedAt),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating issue: %w", err)
	}
	return expectOneRow(res, "issue")
}

func (r *SQLiteIssueRepo) DecrementQuantity(ctx context.Context, i *domain.Issue, expected int) error {
	query := `UPDATE issues SET quantity = ?, is_split = 1, updated_at = ?
		WHERE id = ? AND quantity = ?`
	res, err := r.db.ExecContext(ctx, query, i.Quantity, formatTime(i.UpdatedAt), i.ID, expected)
	if err != nil {
		return fmt.Errorf("decrementing issue quantity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrementing issue quantity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("issue %s expected quantity %d: %w", i.ID, expected, domain.ErrConcurrentUpdate)
	}
	return nil
}

func (r *SQLiteIssueRepo) UpdatePosition(ctx context.Context, pos IssuePosition, updatedAt time.Time) error {
	track, err := encodeTrack(pos.Track)
	if err != nil {
		return err
	}
	query := `UPDATE issues SET status_id = ?, order_index = ?, track = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, pos.StatusID, pos.Order, track, formatTime(updatedAt), pos.ID)
	if err != nil {
		return fmt.Errorf("updating issue position: %w", err)
	}
	return expectOneRow(res, "issue")
}

// ListColumnOrders returns the orders held in one (project, stage) column,
// ascending.
func (r *SQLiteIssueRepo) ListColumnOrders(ctx context.Context, projectID, stageID string) ([]int, error) {
	query := `SELECT order_index FROM issues WHERE project_id = ? AND status_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID, stageID)
	if err != nil {
		return nil, fmt.Errorf("listing column orders: %w", err)
	}
	defer rows.Close()

	var orders []int
	for rows.Next() {
		var o int
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("scanning column order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column orders: %w", err)
	}
	return orders, nil
}

func (r *SQLiteIssueRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting issue: %w", err)
	}
	return expectOneRow(res, "issue")
}

func (r *SQLiteIssueRepo) CountByStage(ctx context.Context, stageID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues WHERE status_id = ?`, stageID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting issues at stage: %w", err)
	}
	return n, nil
}

func (r *SQLiteIssueRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE parent_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child issues: %w", err)
	}
	defer rows.Close()

	var issues []*domain.Issue
	for rows.Next() {
		var row issueRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scanning child issue: %w", err)
		}
		i, err := row.issue()
		if err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating child issues: %w", err)
	}
	return issues, nil
}

// ListViewsBySprint orders by stage id, then highest order first.
func (r *SQLiteIssueRepo) ListViewsBySprint(ctx context.Context, sprintID string) ([]*domain.IssueView, error) {
	query := issueViewSelect + ` WHERE i.sprint_id = ? ORDER BY i.status_id ASC, i.order_index DESC`
	return r.listViews(ctx, query, sprintID)
}

// ListViewsByProject returns the board: stage order, then order within stage.
func (r *SQLiteIssueRepo) ListViewsByProject(ctx context.Context, projectID string) ([]*domain.IssueView, error) {
	query := issueViewSelect + ` WHERE i.project_id = ? ORDER BY s.order_index, i.order_index, i.created_at`
	return r.listViews(ctx, query, projectID)
}

// ListViewsForUser returns batches the user reported or is assigned inside
// the organization, most recently updated first.
func (r *SQLiteIssueRepo) ListViewsForUser(ctx context.Context, userID, organizationID string) ([]*domain.IssueView, error) {
	query := issueViewSelect + `
		JOIN projects p ON p.id = i.project_id
		WHERE (i.reporter_id = ? OR i.assignee_id = ?) AND p.organization_id = ?
		ORDER BY i.updated_at DESC, i.id`
	return r.listViews(ctx, query, userID, userID, organizationID)
}

func (r *SQLiteIssueRepo) listViews(ctx context.Context, query string, args ...any) ([]*domain.IssueView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var views []*domain.IssueView
	for rows.Next() {
		v, err := scanIssueView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return views, nil
}

func (r *SQLiteIssueRepo) InventoryRows(ctx context.Context, projectID string, sprintID *string) ([]domain.InventoryRow, error) {
	query := `SELECT it.id, it.name, it.reorder_value,
			COALESCE(s.id, ''), COALESCE(s.key, ''), COALESCE(s.order_index, 0),
			COALESCE(SUM(i.quantity), 0)
		FROM items it
		LEFT JOIN issues i ON i.item_id = it.id AND (? IS NULL OR i.sprint_id = ?)
		LEFT JOIN stages s ON s.id = i.status_id
		WHERE it.project_id = ?
		GROUP BY it.id, s.id
		ORDER BY it.name, it.id, s.order_index`
	sprint := nullableString(sprintID)
	rows, err := r.db.QueryContext(ctx, query, sprint, sprint, projectID)
	if err != nil {
		return nil, fmt.Errorf("summing inventory: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryRow
	for rows.Next() {
		var row domain.InventoryRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.ReorderValue,
			&row.StageID, &row.StageKey, &row.StageOrder, &row.Quantity); err != nil {
			return nil, fmt.Errorf("scanning inventory row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inventory: %w", err)
	}
	return out, nil
}

func expectOneRow(res sql.Result, subject string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", subject, ErrNotFound)
	}
	return nil
}

// issueRow holds the raw column values of one issues row.
type issueRow struct {
	i                              domain.Issue
	priority, unit, track          string
	assigneeID, sprintID, parentID sql.NullString
	isSplit                        int
	createdAt, updatedAt           string
}

func (r *issueRow) dest() []any {
	return []any{
		&r.i.ID, &r.i.ItemID, &r.i.Description, &r.i.StatusID, &r.i.Order, &r.priority, &r.assigneeID,
		&r.i.ReporterID, &r.i.ProjectID, &r.sprintID, &r.track, &r.i.Quantity, &r.unit, &r.parentID,
		&r.isSplit, &r.createdAt, &r.updatedAt,
	}
}

func (r *issueRow) issue() (*domain.Issue, error) {
	i := r.i
	i.Priority = domain.Priority(r.priority)
	i.Unit = domain.Unit(r.unit)
	i.AssigneeID = stringPtr(r.assigneeID)
	i.SprintID = stringPtr(r.sprintID)
	i.ParentID = stringPtr(r.parentID)
	i.IsSplit = intToBool(r.isSplit)

	var err error
	if i.Track, err = decodeTrack(r.track); err != nil {
		return nil, err
	}
	if i.CreatedAt, err = parseTime("created_at", r.createdAt); err != nil {
		return nil, err
	}
	if i.UpdatedAt, err = parseTime("updated_at", r.updatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// scanIssueView scans one issueViewSelect row. sql.ErrNoRows is returned
// unwrapped so callers can map it.
func scanIssueView(row scanner) (*domain.IssueView, error) {
	var ir issueRow
	var item domain.Item
	var stage domain.Stage
	var protected, terminal int
	var reporter domain.User
	var repCreated, repUpdated string
	var aID, aExt, aEmail, aName, aCreated, aUpdated sql.NullString

	dest := append(ir.dest(),
		&item.ID, &item.ProjectID, &item.Name, &item.ReorderValue,
		&stage.ID, &stage.ProjectID, &stage.Name, &stage.Key, &stage.Order, &protected, &terminal,
		&reporter.ID, &reporter.ExternalID, &reporter.Email, &reporter.Name, &repCreated, &repUpdated,
		&aID, &aExt, &aEmail, &aName, &aCreated, &aUpdated,
	)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning issue view: %w", err)
	}

	issue, err := ir.issue()
	if err != nil {
		return nil, err
	}
	stage.IsProtected = intToBool(protected)
	stage.IsTerminal = intToBool(terminal)
	if reporter.CreatedAt, err = parseTime("reporter created_at", repCreated); err != nil {
		return nil, err
	}
	if reporter.UpdatedAt, err = parseTime("reporter updated_at", repUpdated); err != nil {
		return nil, err
	}

	v := &domain.IssueView{Issue: *issue, Reporter: &reporter, Item: &item, Status: &stage}
	if aID.Valid {
		assignee := &domain.User{ID: aID.String, ExternalID: aExt.String, Email: aEmail.String, Name: aName.String}
		if assignee.CreatedAt, err = parseTime("assignee created_at", aCreated.String); err != nil {
			return nil, err
		}
		if assignee.UpdatedAt, err = parseTime("assignee updated_at", aUpdated.String); err != nil {
			return nil, err
		}
		v.Assignee = assignee
	}
	return v, nil
}
