package mapping

import (
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/models"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
)

// ToModelRefreshToken converts a domain RefreshToken to its stored form. The
// raw token never reaches the database.
func ToModelRefreshToken(d domain.RefreshToken) models.RefreshToken {
	return models.RefreshToken{
		ID:        d.ID,
		TokenHash: utils.HashRefreshToken(d.Token),
		UserID:    d.UserID,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainRefreshToken converts a stored row back. Token is left empty
// because only the hash is persisted.
func ToDomainRefreshToken(m models.RefreshToken) domain.RefreshToken {
	return domain.RefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
