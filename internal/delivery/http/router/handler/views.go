// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"ridelink/internal/domain/entity"
	"ridelink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ridelink/internal/delivery/http/middleware"
)

// UserView is the wire shape of a user account. Credentials never appear here.
type UserView struct {
	ID        uuid.UUID             `json:"id"`
	Email     string                `json:"email"`
	FirstName string                `json:"firstName"`
	LastName  string                `json:"lastName"`
	Phone     string                `json:"phone,omitempty"`
	Roles     []string              `json:"roles"`
	PhotoID   *uuid.UUID            `json:"photoId,omitempty"`
	Passenger *PassengerProfileView `json:"passengerProfile,omitempty"`
	Driver    *DriverProfileView    `json:"driverProfile,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// PassengerProfileView is the wire shape of passenger role data, with the
// passenger's saved locations and payment method references expanded.
type PassengerProfileView struct {
	RideCount      int                  `json:"rideCount"`
	SavedLocations []*LocationView      `json:"savedLocations"`
	PaymentMethods []*PaymentMethodView `json:"paymentMethods"`
}

// DriverProfileView is the wire shape of driver role data.
type DriverProfileView struct {
	LicenseNumber string  `json:"licenseNumber"`
	VehicleMake   string  `json:"vehicleMake"`
	VehicleModel  string  `json:"vehicleModel"`
	VehicleYear   int     `json:"vehicleYear"`
	VehicleColor  string  `json:"vehicleColor,omitempty"`
	PlateNumber   string  `json:"plateNumber"`
	Rating        float64 `json:"rating"`
}

// SessionView is the wire shape of an active session.
type SessionView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsActive  bool      `json:"isActive"`
	Current   bool      `json:"current"`
}

// PhotoView is the wire shape of a profile photo record.
type PhotoView struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Checksum    string    `json:"checksum"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newPhotoView(photo *entity.ProfilePhoto) *PhotoView {
	if photo == nil {
		return nil
	}

	return &PhotoView{
		ID:          photo.ID,
		ContentType: photo.ContentType,
		SizeBytes:   photo.SizeBytes,
		Checksum:    photo.Checksum,
		CreatedAt:   photo.CreatedAt,
	}
}

// TokenPairView is the wire shape of an issued token pair.
type TokenPairView struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// LoginView is the wire shape of a successful login or registration. A fresh
// registration is signed in immediately, so both carry a token pair.
type LoginView struct {
	TokenPairView
	User *UserView `json:"user"`
}

func newRegisterView(output *usecase.RegisterOutput) LoginView {
	return LoginView{
		TokenPairView: TokenPairView{
			AccessToken:  output.AccessToken,
			RefreshToken: output.RefreshToken,
			TokenType:    "Bearer",
		},
		User: newUserView(output.User),
	}
}

func newUserView(user *entity.User) *UserView {
	if user == nil {
		return nil
	}

	view := &UserView{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Roles:     user.Roles().ToStrings(),
		PhotoID:   user.PhotoID,
		CreatedAt: user.CreatedAt,
	}
	if user.PassengerProfile != nil {
		passenger := &PassengerProfileView{
			RideCount:      user.PassengerProfile.RideCount,
			SavedLocations: make([]*LocationView, 0, len(user.PassengerProfile.SavedLocations)),
			PaymentMethods: make([]*PaymentMethodView, 0, len(user.PassengerProfile.PaymentMethods)),
		}
		for _, loc := range user.PassengerProfile.SavedLocations {
			passenger.SavedLocations = append(passenger.SavedLocations, newLocationView(loc))
		}
		for _, method := range user.PassengerProfile.PaymentMethods {
			passenger.PaymentMethods = append(passenger.PaymentMethods, newPaymentMethodView(method))
		}
		view.Passenger = passenger
	}
	if user.DriverProfile != nil {
		view.Driver = &DriverProfileView{
			LicenseNumber: user.DriverProfile.LicenseNumber,
			VehicleMake:   user.DriverProfile.VehicleMake,
			VehicleModel:  user.DriverProfile.VehicleModel,
			VehicleYear:   user.DriverProfile.VehicleYear,
			VehicleColor:  user.DriverProfile.VehicleColor,
			PlateNumber:   user.DriverProfile.PlateNumber,
			Rating:        user.DriverProfile.Rating,
		}
	}

	return view
}

// currentUserID reads the authenticated user ID set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)

	return userID, ok
}
