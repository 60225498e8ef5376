package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

type EnrollmentRepository struct {
	DB *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// BulkInsertIgnoreConflict insere o lote inteiro num ÚNICO statement com
// ON CONFLICT DO NOTHING. A atomicidade do dedup fica toda no Postgres
// (unique em sequence_id+lead_id) — nada de read-then-write, que abriria
// corrida entre enrolls concorrentes.
func (r *EnrollmentRepository) BulkInsertIgnoreConflict(ctx context.Context, rows []*entity.Enrollment) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO enrollments (id, sequence_id, lead_id, contact_id, current_step, status, next_action_at, created_at, updated_at)
		VALUES `)

	args := make([]interface{}, 0, len(rows)*7)
	for i, e := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW(), NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, e.ID, e.SequenceID, e.LeadID, e.ContactID, e.CurrentStep, e.Status, e.NextActionAt)
	}

	sb.WriteString(` ON CONFLICT (sequence_id, lead_id) DO NOTHING`)

	res, err := r.DB.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("falha no bulk insert de enrollments: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(inserted), nil
}

const enrollmentColumns = `id, sequence_id, lead_id, contact_id, current_step, status, next_action_at, last_action_at, created_at, updated_at`

func scanEnrollment(row interface{ Scan(...interface{}) error }) (*entity.Enrollment, error) {
	var e entity.Enrollment
	var lastAction sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.SequenceID,
		&e.LeadID,
		&e.ContactID,
		&e.CurrentStep,
		&e.Status,
		&e.NextActionAt,
		&lastAction,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastAction.Valid {
		e.LastActionAt = &lastAction.Time
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`

	e, err := scanEnrollment(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrEnrollmentNotFound
	}
	return e, err
}

func (r *EnrollmentRepository) FindActiveByLead(ctx context.Context, leadID string) ([]*entity.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE lead_id = $1 AND status = 'active' ORDER BY created_at`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// FindDue: vencidos primeiro por created_at (FIFO — quem foi matriculado
// antes tem prioridade quando a cota do dia aperta).
func (r *EnrollmentRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE status = 'active' AND next_action_at <= $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *EnrollmentRepository) CountActionsSince(ctx context.Context, sequenceID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM enrollments WHERE sequence_id = $1 AND last_action_at >= $2`

	var count int
	err := r.DB.QueryRowContext(ctx, query, sequenceID, since).Scan(&count)
	return count, err
}

func (r *EnrollmentRepository) MarkStepSent(ctx context.Context, id string, nextStep int, nextActionAt, sentAt time.Time) error {
	query := `
		UPDATE enrollments
		SET current_step = $2, next_action_at = $3, last_action_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, nextStep, nextActionAt, sentAt)
	return err
}

func (r *EnrollmentRepository) Complete(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE enrollments
		SET status = 'completed', last_action_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, sentAt)
	return err
}

func (r *EnrollmentRepository) SetStatus(ctx context.Context, id, status string) error {
	query := `UPDATE enrollments SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id, status)
	return err
}
