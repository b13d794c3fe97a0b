package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/rtsyr/rtsyr_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	signupRequestRepo := newPgxSignupRequestRepository(dbPool)
	refreshTokenRepo := newPgxRefreshTokenRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:          userRepo,
		SignupRequestRepo: signupRequestRepo,
		RefreshTokenRepo:  refreshTokenRepo,
	}
}
