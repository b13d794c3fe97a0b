package mapping

import (
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
	"github.com/rtsyr/rtsyr_backend/internal/models"
)

// ToModelSignupRequest converts a domain SignupRequest to a model SignupRequest
func ToModelSignupRequest(d domain.SignupRequest) models.SignupRequest {
	return models.SignupRequest{
		RequestID:         d.RequestID,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		FullName:          toNullString(d.FullName),
		Role:              string(d.Role),
		Phone:             toNullString(d.Phone),
		DriveLink:         toNullString(d.DriveLink),
		CommercialFileURL: toNullString(d.CommercialFileURL),
		Status:            string(d.Status),
		ReasonNote:        toNullString(d.ReasonNote),
		ReviewedByID:      toNullString(d.ReviewedByID),
		ReviewedAt:        toNullTime(d.ReviewedAt),
		UserID:            toNullString(d.UserID),
		CreatedAt:         d.CreatedAt,
	}
}

// ToDomainSignupRequest converts a model SignupRequest to a domain SignupRequest
func ToDomainSignupRequest(m models.SignupRequest) domain.SignupRequest {
	return domain.SignupRequest{
		RequestID:         m.RequestID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FullName:          fromNullString(m.FullName),
		Role:              domain.Role(m.Role),
		Phone:             fromNullString(m.Phone),
		DriveLink:         fromNullString(m.DriveLink),
		CommercialFileURL: fromNullString(m.CommercialFileURL),
		Status:            domain.SignupRequestStatus(m.Status),
		ReasonNote:        fromNullString(m.ReasonNote),
		ReviewedByID:      fromNullString(m.ReviewedByID),
		ReviewedAt:        fromNullTime(m.ReviewedAt),
		UserID:            fromNullString(m.UserID),
		CreatedAt:         m.CreatedAt,
	}
}

func ToDomainSignupRequestSlice(ms []models.SignupRequest) []domain.SignupRequest {
	ds := make([]domain.SignupRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSignupRequest(m)
	}
	return ds
}
