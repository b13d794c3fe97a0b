package mapping

import (
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:               d.UserID,
		Email:                d.Email,
		PasswordHash:         toNullString(d.PasswordHash),
		FullName:             toNullString(d.FullName),
		Role:                 string(d.Role),
		Phone:                toNullString(d.Phone),
		AvatarURL:            toNullString(d.AvatarURL),
		Bio:                  toNullString(d.Bio),
		EmailVerified:        d.EmailVerified,
		EmailVerificationOTP: toNullString(d.EmailVerificationOTP),
		OTPExpiresAt:         toNullTime(d.OTPExpiresAt),
		PlanStatus:           string(d.PlanStatus),
		PlanID:               toNullString(d.PlanID),
		PlanExpiresAt:        toNullTime(d.PlanExpiresAt),
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:               m.UserID,
		Email:                m.Email,
		PasswordHash:         fromNullString(m.PasswordHash),
		FullName:             fromNullString(m.FullName),
		Role:                 domain.Role(m.Role),
		Phone:                fromNullString(m.Phone),
		AvatarURL:            fromNullString(m.AvatarURL),
		Bio:                  fromNullString(m.Bio),
		EmailVerified:        m.EmailVerified,
		EmailVerificationOTP: fromNullString(m.EmailVerificationOTP),
		OTPExpiresAt:         fromNullTime(m.OTPExpiresAt),
		PlanStatus:           domain.PlanStatus(m.PlanStatus),
		PlanID:               fromNullString(m.PlanID),
		PlanExpiresAt:        fromNullTime(m.PlanExpiresAt),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
