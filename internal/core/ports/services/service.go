package services

// ServiceContainer is what the HTTP layer and the seed command are handed.
// TokenService is exposed separately because the auth gate verifies access
// tokens without going through the auth flows.
type ServiceContainer struct {
	Auth         AuthSvcFacade
	TokenService TokenSvcFacade
	OTP          OTPSvc
	User         UserSvcFacade
	SignupReview SignupReviewSvc
}
