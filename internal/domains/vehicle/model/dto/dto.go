package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"vrent/internal/domains/vehicle/model"
	"vrent/shared"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	gModel "vrent/shared/model"
	"vrent/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	paramMinPrice   = "min_price"
	paramMaxPrice   = "max_price"
	paramMinMileage = "min_mileage"
	paramMaxMileage = "max_mileage"
)

var ErrNegativeDailyRate = errors.New("daily_rate must be greater than or equal to 0")

// SortableFields are the columns a vehicle listing may be ordered by.
var SortableFields = []string{
	model.FieldBrand, model.FieldModel, model.FieldYear, model.FieldDailyRate,
	model.FieldMileage, constant.FieldCreatedAt,
}

type CreateVehicleRequest struct {
	Brand        string          `json:"brand"        validate:"required,max=60"`
	Model        string          `json:"model"        validate:"required,max=60"`
	Year         int             `json:"year"         validate:"required,gte=1900,lte=2100"`
	Plate        string          `json:"plate"        validate:"required,max=10"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	IsAvailable  *bool           `json:"is_available"`
	Description  string          `json:"description"  validate:"omitempty,max=1000"`
	Color        string          `json:"color"        validate:"omitempty,max=30"`
	Mileage      int             `json:"mileage"      validate:"gte=0"`
	FuelType     string          `json:"fuel_type"    validate:"omitempty,max=30"`
	Transmission string          `json:"transmission" validate:"omitempty,max=30"`
	Photo        string          `json:"photo"        validate:"omitempty,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

// Validate covers the rules struct tags cannot express on decimals.
func (c *CreateVehicleRequest) Validate() error {
	if c.DailyRate.IsNegative() {
		return ErrNegativeDailyRate
	}

	return nil
}

func (c *CreateVehicleRequest) ToModel(actor, photoURL string) model.Vehicle {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	return model.Vehicle{
		ID:           uuid.NewString(),
		Brand:        strings.TrimSpace(c.Brand),
		Model:        strings.TrimSpace(c.Model),
		Year:         c.Year,
		Plate:        NormalizePlate(c.Plate),
		DailyRate:    c.DailyRate,
		IsAvailable:  available,
		Description:  c.Description,
		Color:        c.Color,
		Mileage:      c.Mileage,
		FuelType:     c.FuelType,
		Transmission: c.Transmission,
		PhotoURL:     photoURL,
		Metadata:     gModel.Stamp(timezone.Now(), actor),
	}
}

// UpdateVehicleRequest is a partial update. Nil and empty fields are left untouched.
type UpdateVehicleRequest struct {
	Brand        string           `db:"brand"        json:"brand"        validate:"omitempty,max=60"`
	Model        string           `db:"model"        json:"model"        validate:"omitempty,max=60"`
	Year         *int             `db:"year"         json:"year"         validate:"omitempty,gte=1900,lte=2100"`
	Plate        string           `db:"plate"        json:"plate"        validate:"omitempty,max=10"`
	DailyRate    *decimal.Decimal `db:"daily_rate"   json:"daily_rate"`
	Description  string           `db:"description"  json:"description"  validate:"omitempty,max=1000"`
	Color        string           `db:"color"        json:"color"        validate:"omitempty,max=30"`
	Mileage      *int             `db:"mileage"      json:"mileage"      validate:"omitempty,gte=0"`
	FuelType     string           `db:"fuel_type"    json:"fuel_type"    validate:"omitempty,max=30"`
	Transmission string           `db:"transmission" json:"transmission" validate:"omitempty,max=30"`
}

func (u *UpdateVehicleRequest) Validate() error {
	if u.DailyRate != nil && u.DailyRate.IsNegative() {
		return ErrNegativeDailyRate
	}

	return nil
}

func (u *UpdateVehicleRequest) Fields(actor string) map[string]any {
	normalized := *u
	normalized.Plate = NormalizePlate(u.Plate)

	return shared.TransformFields(normalized, actor)
}

type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type VehicleResponse struct {
	ID           string `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Plate        string `json:"plate"`
	DailyRate    string `json:"daily_rate"`
	IsAvailable  bool   `json:"is_available"`
	Description  string `json:"description,omitempty"`
	Color        string `json:"color,omitempty"`
	Mileage      int    `json:"mileage"`
	FuelType     string `json:"fuel_type,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.Brand = model.Brand
	r.Model = model.Model
	r.Year = model.Year
	r.Plate = model.Plate
	r.DailyRate = model.DailyRate.StringFixed(2)
	r.IsAvailable = model.IsAvailable
	r.Description = model.Description
	r.Color = model.Color
	r.Mileage = model.Mileage
	r.FuelType = model.FuelType
	r.Transmission = model.Transmission
	r.PhotoURL = model.PhotoURL
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}

// VehicleFilter holds the listing filters accepted on GET /vehicles.
type VehicleFilter struct {
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	IsAvailable  *bool
	Year         *int
	FuelType     string
	Transmission string
	Color        string
	MinMileage   *int
	MaxMileage   *int
}

// FromRequest rejects malformed numbers instead of silently ignoring them.
func (f *VehicleFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.Search = strings.TrimSpace(query.Get(constant.RequestParamSearch))
	f.FuelType = strings.TrimSpace(query.Get(model.FieldFuelType))
	f.Transmission = strings.TrimSpace(query.Get(model.FieldTransmission))
	f.Color = strings.TrimSpace(query.Get(model.FieldColor))
	f.IsAvailable = shared.ConvertStringToBool(query.Get(model.FieldIsAvailable))

	var err error

	if f.MinPrice, err = parseDecimal(query.Get(paramMinPrice), paramMinPrice); err != nil {
		return err
	}

	if f.MaxPrice, err = parseDecimal(query.Get(paramMaxPrice), paramMaxPrice); err != nil {
		return err
	}

	if f.Year, err = parseInt(query.Get(model.FieldYear), model.FieldYear); err != nil {
		return err
	}

	if f.MinMileage, err = parseInt(query.Get(paramMinMileage), paramMinMileage); err != nil {
		return err
	}

	if f.MaxMileage, err = parseInt(query.Get(paramMaxMileage), paramMaxMileage); err != nil {
		return err
	}

	return nil
}

func (f *VehicleFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if f.Search != "" {
		group.Add(gDto.AnyLike(model.TableName, f.Search, model.FieldBrand, model.FieldModel, model.FieldPlate))
	}

	if f.MinPrice != nil {
		group.Add(gDto.Gte(model.TableName, model.FieldDailyRate, "min_daily_rate", *f.MinPrice))
	}

	if f.MaxPrice != nil {
		group.Add(gDto.Lte(model.TableName, model.FieldDailyRate, "max_daily_rate", *f.MaxPrice))
	}

	if f.IsAvailable != nil {
		group.Add(gDto.Eq(model.TableName, model.FieldIsAvailable, *f.IsAvailable))
	}

	if f.Year != nil {
		group.Add(gDto.Eq(model.TableName, model.FieldYear, *f.Year))
	}

	if f.FuelType != "" {
		group.Add(gDto.Eq(model.TableName, model.FieldFuelType, f.FuelType))
	}

	if f.Transmission != "" {
		group.Add(gDto.Eq(model.TableName, model.FieldTransmission, f.Transmission))
	}

	if f.Color != "" {
		group.Add(gDto.Like(model.TableName, model.FieldColor, f.Color))
	}

	if f.MinMileage != nil {
		group.Add(gDto.Gte(model.TableName, model.FieldMileage, paramMinMileage, *f.MinMileage))
	}

	if f.MaxMileage != nil {
		group.Add(gDto.Lte(model.TableName, model.FieldMileage, paramMaxMileage, *f.MaxMileage))
	}

	return group
}

func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}

func parseDecimal(value, name string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}

	return &parsed, nil
}

func parseInt(value, name string) (*int, error) {
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}

	return &parsed, nil
}
