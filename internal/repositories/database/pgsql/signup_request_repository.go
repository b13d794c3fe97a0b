package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	"github.com/rtsyr/rtsyr_backend/internal/models"
	"github.com/rtsyr/rtsyr_backend/internal/utils/mapping"
)

type PgxSignupRequestRepository struct {
	BaseRepository
}

func newPgxSignupRequestRepository(db *pgxpool.Pool) portsrepo.SignupRequestRepositoryFacade {
	return &PgxSignupRequestRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.SignupRequestRepositoryFacade = (*PgxSignupRequestRepository)(nil)

const (
	signupRequestsTable = "signup_requests"

	selectSignupRequestFields = `
		id, email, password_hash, full_name, role, phone, drive_link, commercial_file_url,
		status, reason_note, reviewed_by_id, reviewed_at, user_id, created_at
	`

	insertSignupRequestQuery = `
		INSERT INTO ` + signupRequestsTable + ` (
			id, email, password_hash, full_name, role, phone, drive_link, commercial_file_url,
			status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	closeSignupRequestQuery = `
		UPDATE ` + signupRequestsTable + `
		SET status = $2, reason_note = $3, reviewed_by_id = $4, reviewed_at = $5
		WHERE id = $1 AND status = 'pending'
	`

	approveSignupRequestQuery = `
		UPDATE ` + signupRequestsTable + `
		SET status = 'approved', reason_note = $2, reviewed_by_id = $3, reviewed_at = $4, user_id = $5
		WHERE id = $1 AND status = 'pending'
	`
)

func scanSignupRequest(row pgx.Row) (*models.SignupRequest, error) {
	var m models.SignupRequest
	err := row.Scan(
		&m.RequestID,
		&m.Email,
		&m.PasswordHash,
		&m.FullName,
		&m.Role,
		&m.Phone,
		&m.DriveLink,
		&m.CommercialFileURL,
		&m.Status,
		&m.ReasonNote,
		&m.ReviewedByID,
		&m.ReviewedAt,
		&m.UserID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxSignupRequestRepository) SaveSignupRequest(ctx context.Context, req domain.SignupRequest) error {
	m := mapping.ToModelSignupRequest(req)
	_, err := r.Pool.Exec(ctx, insertSignupRequestQuery,
		m.RequestID,
		m.Email,
		m.PasswordHash,
		m.FullName,
		m.Role,
		m.Phone,
		m.DriveLink,
		m.CommercialFileURL,
		m.Status,
		m.CreatedAt,
	)
	if err != nil {
		switch uniqueViolation(err) {
		case "":
			return fmt.Errorf("failed to save signup request: %w", err)
		case "signup_requests_pending_email_key":
			return apperrors.ErrSignupAlreadyPending
		default:
			return fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
		}
	}
	return nil
}

func (r *PgxSignupRequestRepository) FindSignupRequestByID(ctx context.Context, requestID string) (*domain.SignupRequest, error) {
	query := `SELECT ` + selectSignupRequestFields + ` FROM ` + signupRequestsTable + ` WHERE id = $1`
	m, err := scanSignupRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find signup request %s: %w", requestID, err)
	}
	req := mapping.ToDomainSignupRequest(*m)
	return &req, nil
}

func (r *PgxSignupRequestRepository) FindPendingSignupRequestByEmail(ctx context.Context, email string) (*domain.SignupRequest, error) {
	query := `SELECT ` + selectSignupRequestFields + ` FROM ` + signupRequestsTable + ` WHERE email = $1 AND status = 'pending'`
	m, err := scanSignupRequest(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pending signup request: %w", err)
	}
	req := mapping.ToDomainSignupRequest(*m)
	return &req, nil
}

func (r *PgxSignupRequestRepository) FindSignupRequests(ctx context.Context, filter domain.SignupRequestFilter) ([]domain.SignupRequest, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := max(filter.Offset, 0)

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	query := `
		SELECT ` + selectSignupRequestFields + `
		FROM ` + signupRequestsTable + `
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query signup requests: %w", err)
	}
	defer rows.Close()

	modelRequests := []models.SignupRequest{}
	for rows.Next() {
		m, err := scanSignupRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signup request row: %w", err)
		}
		modelRequests = append(modelRequests, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signup request rows: %w", err)
	}
	return mapping.ToDomainSignupRequestSlice(modelRequests), nil
}

func (r *PgxSignupRequestRepository) CountSignupRequests(ctx context.Context, status domain.SignupRequestStatus) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+signupRequestsTable+` WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count signup requests: %w", err)
	}
	return count, nil
}

func (r *PgxSignupRequestRepository) CloseSignupRequest(ctx context.Context, req domain.SignupRequest) error {
	m := mapping.ToModelSignupRequest(req)
	cmdTag, err := r.Pool.Exec(ctx, closeSignupRequestQuery,
		m.RequestID,
		m.Status,
		m.ReasonNote,
		m.ReviewedByID,
		m.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update signup request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, req.RequestID)
	}
	return nil
}

// ApproveSignupRequest inserts the new profile and flips the request to
// approved in a single transaction. Either both rows change or neither does.
func (r *PgxSignupRequestRepository) ApproveSignupRequest(ctx context.Context, req domain.SignupRequest, user domain.User) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	if err = insertUser(ctx, tx, user); err != nil {
		return fmt.Errorf("failed to create approved profile: %w", err)
	}

	m := mapping.ToModelSignupRequest(req)
	cmdTag, err := tx.Exec(ctx, approveSignupRequestQuery,
		m.RequestID,
		m.ReasonNote,
		m.ReviewedByID,
		m.ReviewedAt,
		user.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark signup request approved: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = r.classifyMissedUpdate(ctx, req.RequestID)
		return err
	}

	return r.Commit(ctx, tx)
}

// classifyMissedUpdate tells apart a vanished request from one that another
// reviewer closed first.
func (r *PgxSignupRequestRepository) classifyMissedUpdate(ctx context.Context, requestID string) error {
	if _, err := r.FindSignupRequestByID(ctx, requestID); err != nil {
		return err
	}
	return apperrors.ErrSignupAlreadyClosed
}
