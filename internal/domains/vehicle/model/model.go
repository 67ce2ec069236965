package model

import (
	"vrent/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID           = "id"
	FieldBrand        = "brand"
	FieldModel        = "model"
	FieldYear         = "year"
	FieldPlate        = "plate"
	FieldDailyRate    = "daily_rate"
	FieldIsAvailable  = "is_available"
	FieldColor        = "color"
	FieldMileage      = "mileage"
	FieldFuelType     = "fuel_type"
	FieldTransmission = "transmission"
	FieldPhotoURL     = "photo_url"

	ConstraintPlate = "vehicles_plate_key"

	// CachePrefix namespaces every vehicle cache key. Rental writes clear it.
	CachePrefix = "vehicle"

	// PhotoDirectory is the object storage folder for vehicle photos.
	PhotoDirectory = "vehicles"
	PhotoMaxBytes  = 1 << 20
)

type Vehicle struct {
	ID           string          `db:"id"`
	Brand        string          `db:"brand"`
	Model        string          `db:"model"`
	Year         int             `db:"year"`
	Plate        string          `db:"plate"`
	DailyRate    decimal.Decimal `db:"daily_rate"`
	IsAvailable  bool            `db:"is_available"`
	Description  string          `db:"description"`
	Color        string          `db:"color"`
	Mileage      int             `db:"mileage"`
	FuelType     string          `db:"fuel_type"`
	Transmission string          `db:"transmission"`
	PhotoURL     string          `db:"photo_url"`
	model.Metadata
}
