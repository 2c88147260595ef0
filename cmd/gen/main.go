package main

import (
	"ridelink/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.PassengerProfileModel{},
		model.DriverProfileModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.SavedLocationModel{},
		model.PaymentMethodModel{},
		model.ProfilePhotoModel{},
		model.AccountEventModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
