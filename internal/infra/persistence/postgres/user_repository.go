// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"ridelink/internal/domain/entity"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/repository"
	"ridelink/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading their associated profiles.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("PassengerProfile").
		Preload("PassengerProfile.SavedLocations").
		Preload("PassengerProfile.PaymentMethods").
		Preload("DriverProfile").
		Where("id = ?", id).
		First(&userM).Error

	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		// Otherwise, return the original database error.
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading profiles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("PassengerProfile").
		Preload("PassengerProfile.SavedLocations").
		Preload("PassengerProfile.PaymentMethods").
		Preload("DriverProfile").
		Where("email = ?", email).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, including its associated profiles, to the database.
// GORM's Create with associations will handle inserting into users, passenger_profiles,
// and/or driver_profiles within a single transaction.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	// Execute the creation using the database connection.
	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid foreign key reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	// Update profile IDs if they exist
	if user.PassengerProfile != nil && userM.PassengerProfile != nil {
		user.PassengerProfile.UserID = userM.PassengerProfile.UserID
		user.PassengerProfile.UpdatedAt = userM.PassengerProfile.UpdatedAt
	}
	if user.DriverProfile != nil && userM.DriverProfile != nil {
		user.DriverProfile.UserID = userM.DriverProfile.UserID
		user.DriverProfile.UpdatedAt = userM.DriverProfile.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity, including its associated profiles, in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	// Use Session with FullSaveAssociations to update nested associations
	if err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email or license already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("missing required user information")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("invalid foreign key reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	// Update the user entity with the updated timestamps
	user.UpdatedAt = userM.UpdatedAt
	if user.PassengerProfile != nil && userM.PassengerProfile != nil {
		user.PassengerProfile.UpdatedAt = userM.PassengerProfile.UpdatedAt
	}
	if user.DriverProfile != nil && userM.DriverProfile != nil {
		user.DriverProfile.UpdatedAt = userM.DriverProfile.UpdatedAt
	}

	return nil
}

// Delete removes a user row. Dependent rows (profiles, credentials, sessions)
// are removed by ON DELETE CASCADE in the schema.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// AcquireSessionMutex takes a FOR UPDATE lock on the user row. Concurrent logins
// for the same user then serialize on this lock inside their transactions.
func (repo *userRepository) AcquireSessionMutex(ctx context.Context, userID uuid.UUID) error {
	var locked model.UserModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		First(&locked).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to lock user row")
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:               data.ID,
		Email:            data.Email,
		FirstName:        data.FirstName,
		LastName:         data.LastName,
		Phone:            data.Phone,
		IsAdmin:          data.IsAdmin,
		PhotoID:          data.PhotoID,
		PassengerProfile: toPassengerProfileDomain(data.PassengerProfile),
		DriverProfile:    toDriverProfileDomain(data.DriverProfile),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:               data.ID,
		Email:            data.Email,
		FirstName:        data.FirstName,
		LastName:         data.LastName,
		Phone:            data.Phone,
		IsAdmin:          data.IsAdmin,
		PhotoID:          data.PhotoID,
		PassengerProfile: fromPassengerProfileDomain(data.PassengerProfile),
		DriverProfile:    fromDriverProfileDomain(data.DriverProfile),
	}
}

// toPassengerProfileDomain converts a GORM PassengerProfileModel to a domain PassengerProfile entity.
func toPassengerProfileDomain(data *model.PassengerProfileModel) *entity.PassengerProfile {
	if data == nil {
		return nil
	}

	locations := make([]*entity.SavedLocation, 0, len(data.SavedLocations))
	for _, loc := range data.SavedLocations {
		locations = append(locations, toSavedLocationDomain(loc))
	}

	methods := make([]*entity.PaymentMethod, 0, len(data.PaymentMethods))
	for _, method := range data.PaymentMethods {
		methods = append(methods, toPaymentMethodDomain(method))
	}

	return &entity.PassengerProfile{
		UserID:         data.UserID,
		SavedLocations: locations,
		PaymentMethods: methods,
		RideCount:      data.RideCount,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromPassengerProfileDomain converts a domain PassengerProfile entity to a GORM PassengerProfileModel.
func fromPassengerProfileDomain(data *entity.PassengerProfile) *model.PassengerProfileModel {
	if data == nil {
		return nil
	}

	locations := make([]*model.SavedLocationModel, 0, len(data.SavedLocations))
	for _, loc := range data.SavedLocations {
		locations = append(locations, fromSavedLocationDomain(loc))
	}

	methods := make([]*model.PaymentMethodModel, 0, len(data.PaymentMethods))
	for _, method := range data.PaymentMethods {
		methods = append(methods, fromPaymentMethodDomain(method))
	}

	return &model.PassengerProfileModel{
		UserID:         data.UserID,
		SavedLocations: locations,
		PaymentMethods: methods,
		RideCount:      data.RideCount,
		UpdatedAt:      data.UpdatedAt,
	}
}

// toDriverProfileDomain converts a GORM DriverProfileModel to a domain DriverProfile entity.
func toDriverProfileDomain(data *model.DriverProfileModel) *entity.DriverProfile {
	if data == nil {
		return nil
	}

	return &entity.DriverProfile{
		UserID:        data.UserID,
		LicenseNumber: data.LicenseNumber,
		VehicleMake:   data.VehicleMake,
		VehicleModel:  data.VehicleModel,
		VehicleYear:   data.VehicleYear,
		VehicleColor:  data.VehicleColor,
		PlateNumber:   data.PlateNumber,
		Rating:        data.Rating,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromDriverProfileDomain converts a domain DriverProfile entity to a GORM DriverProfileModel.
func fromDriverProfileDomain(data *entity.DriverProfile) *model.DriverProfileModel {
	if data == nil {
		return nil
	}

	return &model.DriverProfileModel{
		UserID:        data.UserID,
		LicenseNumber: data.LicenseNumber,
		VehicleMake:   data.VehicleMake,
		VehicleModel:  data.VehicleModel,
		VehicleYear:   data.VehicleYear,
		VehicleColor:  data.VehicleColor,
		PlateNumber:   data.PlateNumber,
		Rating:        data.Rating,
		UpdatedAt:     data.UpdatedAt,
	}
}
