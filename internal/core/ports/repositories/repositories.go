package repositories

// RepositoryProvider bundles the stores behind the auth and approval
// services: profiles, signup requests and refresh tokens.
type RepositoryProvider struct {
	UserRepo          UserRepositoryFacade
	SignupRequestRepo SignupRequestRepositoryFacade
	RefreshTokenRepo  RefreshTokenRepository
}
