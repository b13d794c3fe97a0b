package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rtsyr/rtsyr_backend/internal/apperrors"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
	"github.com/rtsyr/rtsyr_backend/internal/models"
	"github.com/rtsyr/rtsyr_backend/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const (
	profilesTable = "profiles"

	selectUserFields = `
		id, email, password_hash, full_name, role, phone, avatar_url, bio,
		email_verified, email_verification_otp, otp_expires_at,
		plan_status, plan_id, plan_expires_at, created_at, updated_at
	`

	insertUserQuery = `
		INSERT INTO ` + profilesTable + ` (
			id, email, password_hash, full_name, role, phone, avatar_url, bio,
			email_verified, email_verification_otp, otp_expires_at,
			plan_status, plan_id, plan_expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	updateUserQuery = `
		UPDATE ` + profilesTable + `
		SET email = $2, full_name = $3, role = $4, phone = $5, avatar_url = $6, bio = $7,
			email_verified = $8, plan_status = $9, plan_id = $10, plan_expires_at = $11,
			updated_at = $12
		WHERE id = $1
	`

	setEmailOTPQuery = `
		UPDATE ` + profilesTable + `
		SET email_verification_otp = $2, otp_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	// The predicate doubles as the check-and-set: only one of several
	// concurrent submissions can match it.
	markEmailVerifiedQuery = `
		UPDATE ` + profilesTable + `
		SET email_verified = TRUE, email_verification_otp = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
			AND email_verified = FALSE
			AND email_verification_otp = $2
			AND (otp_expires_at IS NULL OR otp_expires_at >= $3)
	`
)

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.FullName,
		&m.Role,
		&m.Phone,
		&m.AvatarURL,
		&m.Bio,
		&m.EmailVerified,
		&m.EmailVerificationOTP,
		&m.OTPExpiresAt,
		&m.PlanStatus,
		&m.PlanID,
		&m.PlanExpiresAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// mapUserWriteError converts unique violations into conflict errors.
func mapUserWriteError(err error) error {
	switch uniqueViolation(err) {
	case "":
		return err
	case "profiles_email_key":
		return apperrors.ErrEmailTaken
	case "profiles_phone_key":
		return apperrors.ErrPhoneTaken
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
	}
}

func insertUser(ctx context.Context, db dbtx, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := db.Exec(ctx, insertUserQuery,
		m.UserID,
		m.Email,
		m.PasswordHash,
		m.FullName,
		m.Role,
		m.Phone,
		m.AvatarURL,
		m.Bio,
		m.EmailVerified,
		m.EmailVerificationOTP,
		m.OTPExpiresAt,
		m.PlanStatus,
		m.PlanID,
		m.PlanExpiresAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapUserWriteError(err)
	}
	return nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if err := insertUser(ctx, r.Pool, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + selectUserFields + ` FROM ` + profilesTable + ` WHERE ` + where + ` LIMIT 1`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := r.findOne(ctx, "id = $1", userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, err
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.findOne(ctx, "email = $1", email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, err
}

func (r *PgxUserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	user, err := r.findOne(ctx, "phone = $1", phone)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return user, err
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var role *string
	if filter.Role != nil {
		s := string(*filter.Role)
		role = &s
	}

	query := `
		SELECT ` + selectUserFields + `
		FROM ` + profilesTable + `
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.Pool.Query(ctx, query, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		modelUsers = append(modelUsers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return mapping.ToDomainUserSlice(modelUsers), nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	cmdTag, err := r.Pool.Exec(ctx, updateUserQuery,
		m.UserID,
		m.Email,
		m.FullName,
		m.Role,
		m.Phone,
		m.AvatarURL,
		m.Bio,
		m.EmailVerified,
		m.PlanStatus,
		m.PlanID,
		m.PlanExpiresAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", mapUserWriteError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`UPDATE `+profilesTable+` SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM `+profilesTable+` WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) SetEmailOTP(ctx context.Context, userID string, otp string, expiresAt time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, setEmailOTPQuery, userID, otp, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) MarkEmailVerified(ctx context.Context, userID string, otp string, now time.Time) (bool, error) {
	cmdTag, err := r.Pool.Exec(ctx, markEmailVerifiedQuery, userID, otp, now)
	if err != nil {
		return false, fmt.Errorf("failed to mark email verified: %w", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxUserRepository) CountUsers(ctx context.Context, role *domain.Role) (int64, error) {
	var roleArg *string
	if role != nil {
		s := string(*role)
		roleArg = &s
	}
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+profilesTable+` WHERE ($1::text IS NULL OR role = $1)`,
		roleArg).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *PgxUserRepository) CountVerifiedUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+profilesTable+` WHERE email_verified = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count verified users: %w", err)
	}
	return count, nil
}
