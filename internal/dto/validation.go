package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

// RegisterValidators installs the enum validators used in binding tags on
// gin's validator engine. It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	validators := map[string]validator.Func{
		"user_role": func(fl validator.FieldLevel) bool {
			return domain.Role(fl.Field().String()).IsValid()
		},
		"plan_status": func(fl validator.FieldLevel) bool {
			return domain.PlanStatus(fl.Field().String()).IsValid()
		},
		"signup_status": func(fl validator.FieldLevel) bool {
			_, err := domain.ParseSignupRequestStatus(fl.Field().String())
			return err == nil
		},
		"signup_decision": func(fl validator.FieldLevel) bool {
			return domain.SignupRequestStatus(fl.Field().String()).IsReviewDecision()
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
