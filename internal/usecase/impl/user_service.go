// Package impl provides the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"log/slog"
	"time"

	"ridelink/config"
	deliverycontext "ridelink/internal/delivery/context"
	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/domain/service"
	"ridelink/internal/errors"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// dummyPasswordHash is compared against when login hits an unknown email, so
// the request costs roughly the same as a real password check.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// defaultMaxActiveSessions caps concurrent sessions per user when no value is configured.
const defaultMaxActiveSessions = 5

type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	authRepo          repository.AuthRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	passwordHasher    service.PasswordHasher
	tokenService      service.TokenService
	eventPublisher    service.EventPublisher
	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams defines the dependencies for the user service.
type UserServiceParams struct {
	fx.In

	Config           *config.Config
	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	AuthRepo         repository.AuthRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	PasswordHasher   service.PasswordHasher
	TokenService     service.TokenService
	EventPublisher   service.EventPublisher
	Logger           *slog.Logger
}

// NewUserService creates a new instance of the user service.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxSessions := defaultMaxActiveSessions
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MaxActiveSessions > 0 {
		maxSessions = params.Config.Auth.MaxActiveSessions
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		authRepo:          params.AuthRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		passwordHasher:    params.PasswordHasher,
		tokenService:      params.TokenService,
		eventPublisher:    params.EventPublisher,
		maxActiveSessions: maxSessions,
		logger:            params.Logger,
	}
}

func (s *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// registrationConfig captures the role-specific parts of a registration flow,
// so passenger and driver registration share one implementation.
type registrationConfig struct {
	firstName string
	lastName  string
	email     string
	phone     string
	password  string

	// attachProfile adds the role profile to a user that does not have it yet.
	attachProfile func(user *entity.User)

	// hasProfile reports whether the user already carries the role profile.
	hasProfile func(user *entity.User) bool

	// profileExistsError is returned when the account already has the role.
	profileExistsError domainerrors.AppError
}

// RegisterPassenger registers a new passenger account, or attaches a passenger
// profile to an existing account when the email is already registered and the
// supplied password matches.
func (s *userService) RegisterPassenger(ctx context.Context, input *usecase.RegisterPassengerInput) (*usecase.RegisterOutput, error) {
	return s.executeRegistration(ctx, registrationConfig{
		firstName: input.FirstName,
		lastName:  input.LastName,
		email:     input.Email,
		phone:     input.Phone,
		password:  input.Password,
		attachProfile: func(user *entity.User) {
			user.PassengerProfile = &entity.PassengerProfile{UserID: user.ID}
		},
		hasProfile: func(user *entity.User) bool {
			return user.PassengerProfile != nil
		},
		profileExistsError: domainerrors.ErrUserAlreadyExists,
	})
}

// RegisterDriver registers a new driver account, or attaches a driver profile
// to an existing account when the email is already registered and the supplied
// password matches.
func (s *userService) RegisterDriver(ctx context.Context, input *usecase.RegisterDriverInput) (*usecase.RegisterOutput, error) {
	return s.executeRegistration(ctx, registrationConfig{
		firstName: input.FirstName,
		lastName:  input.LastName,
		email:     input.Email,
		phone:     input.Phone,
		password:  input.Password,
		attachProfile: func(user *entity.User) {
			user.DriverProfile = &entity.DriverProfile{
				UserID:        user.ID,
				LicenseNumber: input.LicenseNumber,
				VehicleMake:   input.VehicleMake,
				VehicleModel:  input.VehicleModel,
				VehicleYear:   input.VehicleYear,
				VehicleColor:  input.VehicleColor,
				PlateNumber:   input.PlateNumber,
			}
		},
		hasProfile: func(user *entity.User) bool {
			return user.DriverProfile != nil
		},
		profileExistsError: domainerrors.ErrDriverAlreadyExists,
	})
}

func (s *userService) executeRegistration(ctx context.Context, cfg registrationConfig) (*usecase.RegisterOutput, error) {
	if err := s.passwordHasher.ValidatePasswordStrength(cfg.password); err != nil {
		return nil, err
	}

	var registeredUser *entity.User

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		existingAuth, err := factory.AuthRepo().FindAuthentication(ctx, entity.ProviderTypeEmail, cfg.email)

		switch {
		case err == nil:
			registeredUser, err = s.handleExistingAccountRegistration(ctx, factory, existingAuth, cfg)

			return err
		case errors.Is(err, repository.ErrAuthNotFound):
			registeredUser, err = s.handleNewRegistration(ctx, factory, cfg)

			return err
		default:
			return errors.Wrap(err, "failed to look up existing credentials")
		}
	})
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	accessToken, refreshToken, err := s.tokenService.GenerateTokens(
		registeredUser.ID, sessionID, registeredUser.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := s.storeRefreshToken(ctx, registeredUser.ID, sessionID, refreshToken); err != nil {
		return nil, err
	}

	s.publishAccountEvent(ctx, service.AccountEventRegistered, registeredUser)

	return &usecase.RegisterOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         registeredUser,
	}, nil
}

// handleNewRegistration creates a brand-new user with its credential and role profile.
func (s *userService) handleNewRegistration(
	ctx context.Context,
	factory repository.RepositoryFactory,
	cfg registrationConfig,
) (*entity.User, error) {
	hashedPassword, err := s.passwordHasher.Hash(cfg.password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:     cfg.email,
		FirstName: cfg.firstName,
		LastName:  cfg.lastName,
		Phone:     cfg.phone,
	}
	cfg.attachProfile(user)

	if err := factory.UserRepo().Create(ctx, user); err != nil {
		return nil, err
	}

	auth := &entity.Authentication{
		UserID:         user.ID,
		Provider:       entity.ProviderTypeEmail,
		ProviderUserID: cfg.email,
		PasswordHash:   hashedPassword,
	}
	if err := factory.AuthRepo().CreateAuthentication(ctx, auth); err != nil {
		return nil, err
	}

	s.log(ctx).Info("new account registered",
		slog.String("userID", user.ID.String()),
		slog.Any("roles", user.Roles()),
	)

	return user, nil
}

// handleExistingAccountRegistration attaches the requested role profile to an
// account that already exists. The caller must prove ownership by presenting
// the account password.
func (s *userService) handleExistingAccountRegistration(
	ctx context.Context,
	factory repository.RepositoryFactory,
	auth *entity.Authentication,
	cfg registrationConfig,
) (*entity.User, error) {
	if !s.passwordHasher.Check(cfg.password, auth.PasswordHash) {
		return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("email registered with a different password")
	}

	user, err := factory.UserRepo().FindByID(ctx, auth.UserID)
	if err != nil {
		return nil, err
	}

	if cfg.hasProfile(user) {
		return nil, cfg.profileExistsError
	}

	cfg.attachProfile(user)

	if err := factory.UserRepo().Update(ctx, user); err != nil {
		return nil, err
	}

	s.log(ctx).Info("role profile attached to existing account",
		slog.String("userID", user.ID.String()),
		slog.Any("roles", user.Roles()),
	)

	return user, nil
}

// Login authenticates a user by email and password and starts a new session.
// All credential failures collapse into ErrInvalidCredentials so a caller
// cannot tell which emails are registered.
func (s *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	auth, err := s.loadLoginAuth(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if !s.passwordHasher.Check(input.Password, auth.PasswordHash) {
		s.log(ctx).Warn("login rejected", slog.String("reason", "password mismatch"))

		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByID(ctx, auth.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, err
	}

	sessionID := uuid.New()
	accessToken, refreshToken, err := s.tokenService.GenerateTokens(user.ID, sessionID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := s.storeRefreshToken(ctx, user.ID, sessionID, refreshToken); err != nil {
		return nil, err
	}

	s.log(ctx).Info("login succeeded",
		slog.String("userID", user.ID.String()),
		slog.Any("roles", user.Roles()),
	)

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// loadLoginAuth fetches the email credential. Unknown emails still pay for a
// bcrypt comparison before failing, keeping timing close to the known-email path.
func (s *userService) loadLoginAuth(ctx context.Context, email string) (*entity.Authentication, error) {
	auth, err := s.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			s.passwordHasher.Check("mismatch", dummyPasswordHash)
			s.log(ctx).Warn("login rejected", slog.String("reason", "unknown email"))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, err
	}

	return auth, nil
}

// storeRefreshToken persists a new session under the per-user session cap.
// The cap check and the insert run inside one transaction holding a row lock
// on the user, so concurrent logins cannot race past the limit.
func (s *userService) storeRefreshToken(ctx context.Context, userID, sessionID uuid.UUID, refreshToken string) error {
	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.UserRepo().AcquireSessionMutex(ctx, userID); err != nil {
			return err
		}

		active, err := factory.RefreshTokenRepo().FindRefreshTokensByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if len(active) >= s.maxActiveSessions {
			return domainerrors.ErrSessionLimitExceeded
		}

		return factory.RefreshTokenRepo().CreateRefreshToken(ctx, &entity.RefreshToken{
			ID:        sessionID,
			UserID:    userID,
			TokenHash: s.tokenService.HashToken(refreshToken),
			ExpiresAt: time.Now().Add(s.tokenService.GetRefreshTokenDuration()),
		})
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair. The old
// session row is replaced in the same transaction, so a refresh token can be
// redeemed at most once.
func (s *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := s.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, err
	}

	sessionID := uuid.New()
	accessToken, refreshToken, err := s.tokenService.GenerateTokens(user.ID, sessionID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		oldHash := s.tokenService.HashToken(input.RefreshToken)

		stored, err := factory.RefreshTokenRepo().FindRefreshTokenByHash(ctx, oldHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) ||
				errors.Is(err, repository.ErrRefreshTokenExpired) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return err
		}

		if stored.UserID != claims.UserID {
			return domainerrors.ErrRefreshTokenInvalid
		}

		if err := factory.RefreshTokenRepo().DeleteRefreshToken(ctx, stored.ID); err != nil {
			// A concurrent refresh may have rotated this session first.
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return domainerrors.ErrRefreshTokenInvalid
			}

			return err
		}

		return factory.RefreshTokenRepo().CreateRefreshToken(ctx, &entity.RefreshToken{
			ID:        sessionID,
			UserID:    user.ID,
			TokenHash: s.tokenService.HashToken(refreshToken),
			ExpiresAt: time.Now().Add(s.tokenService.GetRefreshTokenDuration()),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("session refreshed", slog.String("userID", user.ID.String()))

	return &usecase.RefreshTokenOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout ends the session identified by the presented refresh token.
// Logout is idempotent: an already-revoked or malformed token succeeds.
func (s *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if _, err := s.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		s.log(ctx).Warn("logout with invalid refresh token", slog.Any("error", err))

		return nil
	}

	tokenHash := s.tokenService.HashToken(input.RefreshToken)

	err := s.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}

		return err
	}

	return nil
}

// publishAccountEvent emits an account lifecycle event. Publishing failures
// are logged but never fail the triggering operation.
func (s *userService) publishAccountEvent(ctx context.Context, eventType string, user *entity.User) {
	if s.eventPublisher == nil || user == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		EventType: eventType,
		UserID:    user.ID.String(),
		Email:     user.Email,
		Roles:     user.Roles().ToStrings(),
	}

	if err := s.eventPublisher.PublishAccountEvent(ctx, event); err != nil {
		s.log(ctx).Warn("failed to publish account event",
			slog.String("eventType", eventType),
			slog.String("userID", user.ID.String()),
			slog.Any("error", err),
		)
	}
}
