package dto

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"vrent/internal/domains/rental/model"
	"vrent/internal/domains/rental/pricing"
	"vrent/shared"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	gModel "vrent/shared/model"
	"vrent/shared/timezone"

	"github.com/google/uuid"
)

const moneyPlaces = 2

var (
	ErrInvalidPeriod = errors.New("end_date must be after start_date")
	ErrUnknownStatus = errors.New("status must be one of pending, active, completed, cancelled")
)

var SortableFields = []string{
	model.FieldStartDate, model.FieldEndDate, model.FieldTotalAmount, model.FieldStatus, constant.FieldCreatedAt,
}

type CreateRentalRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	VehicleID  string `json:"vehicle_id"  validate:"required,uuid"`
	StartDate  string `json:"start_date"  validate:"required,isodate"`
	EndDate    string `json:"end_date"    validate:"required,isodate"`
	Notes      string `json:"notes"       validate:"omitempty,max=1000"`
}

// Period parses both dates and rejects an empty or reversed range.
func (c *CreateRentalRequest) Period() (time.Time, time.Time, error) {
	return period(c.StartDate, c.EndDate)
}

func (c *CreateRentalRequest) ToModel(quote pricing.Quote, start, end time.Time, actor string) model.Rental {
	return model.Rental{
		ID:          uuid.NewString(),
		CustomerID:  c.CustomerID,
		VehicleID:   c.VehicleID,
		StartDate:   start,
		EndDate:     end,
		DaysRented:  quote.DaysRented,
		DailyRate:   quote.DailyRate,
		TotalAmount: quote.TotalAmount,
		Status:      model.StatusPending,
		Notes:       strings.TrimSpace(c.Notes),
		Metadata:    gModel.Stamp(timezone.Now(), actor),
	}
}

// UpdateRentalRequest edits dates and notes. Omitted dates keep their stored value.
type UpdateRentalRequest struct {
	StartDate string  `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string  `json:"end_date"   validate:"omitempty,isodate"`
	Notes     *string `json:"notes"      validate:"omitempty,max=1000"`
}

func (u *UpdateRentalRequest) ChangesPeriod() bool {
	return u.StartDate != constant.Empty || u.EndDate != constant.Empty
}

// Period merges the requested dates over the current ones.
func (u *UpdateRentalRequest) Period(current model.Rental) (time.Time, time.Time, error) {
	start, end := current.StartDate, current.EndDate

	var err error

	if u.StartDate != constant.Empty {
		if start, err = timezone.ParseDate(u.StartDate); err != nil {
			return start, end, err //nolint:wrapcheck
		}
	}

	if u.EndDate != constant.Empty {
		if end, err = timezone.ParseDate(u.EndDate); err != nil {
			return start, end, err //nolint:wrapcheck
		}
	}

	if !end.After(start) {
		return start, end, ErrInvalidPeriod
	}

	return start, end, nil
}

type RentalResponse struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	VehicleID    string `json:"vehicle_id"`
	VehicleBrand string `json:"vehicle_brand,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DaysRented   int    `json:"days_rented"`
	DailyRate    string `json:"daily_rate"`
	TotalAmount  string `json:"total_amount"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *RentalResponse) FromModel(model model.Rental) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.CustomerName = model.CustomerName
	r.VehicleID = model.VehicleID
	r.VehicleBrand = model.VehicleBrand
	r.VehicleModel = model.VehicleModel
	r.VehiclePlate = model.VehiclePlate
	r.StartDate = model.StartDate.UTC().Format(constant.DateFormat)
	r.EndDate = model.EndDate.UTC().Format(constant.DateFormat)
	r.DaysRented = model.DaysRented
	r.DailyRate = model.DailyRate.StringFixed(moneyPlaces)
	r.TotalAmount = model.TotalAmount.StringFixed(moneyPlaces)
	r.Status = string(model.Status)
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetRentalsResponse struct {
	Rentals   []RentalResponse `json:"rentals"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetRentalsResponse) FromModels(models []model.Rental, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rentals = make([]RentalResponse, len(models))
	for i, mod := range models {
		r.Rentals[i].FromModel(mod)
	}
}

// RentalFilter narrows rental listings.
type RentalFilter struct {
	Status     model.Status
	CustomerID string
	VehicleID  string
}

func (f *RentalFilter) FromRequest(r *http.Request) error {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(model.FieldStatus)))
	if value == constant.Empty {
		return nil
	}

	status, ok := model.ParseStatus(value)
	if !ok {
		return ErrUnknownStatus
	}

	f.Status = status

	return nil
}

func (f *RentalFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if f.Status != constant.Empty {
		group.Add(gDto.Eq(model.TableName, model.FieldStatus, f.Status))
	}

	if f.CustomerID != constant.Empty {
		group.Add(gDto.Eq(model.TableName, model.FieldCustomerID, f.CustomerID))
	}

	if f.VehicleID != constant.Empty {
		group.Add(gDto.Eq(model.TableName, model.FieldVehicleID, f.VehicleID))
	}

	return group
}

// RentalEvent is the payload published for every lifecycle change.
type RentalEvent struct {
	Type        string `json:"type"`
	RentalID    string `json:"rental_id"`
	CustomerID  string `json:"customer_id"`
	VehicleID   string `json:"vehicle_id"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	Actor       string `json:"actor"`
	OccurredAt  string `json:"occurred_at"`
}

func NewRentalEvent(eventType string, rental model.Rental, actor string) RentalEvent {
	return RentalEvent{
		Type:        eventType,
		RentalID:    rental.ID,
		CustomerID:  rental.CustomerID,
		VehicleID:   rental.VehicleID,
		Status:      string(rental.Status),
		TotalAmount: rental.TotalAmount.StringFixed(moneyPlaces),
		Actor:       actor,
		OccurredAt:  timezone.Format(timezone.Now(), constant.DateFormat),
	}
}

func period(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := timezone.ParseDate(startValue)
	if err != nil {
		return start, start, err //nolint:wrapcheck
	}

	end, err := timezone.ParseDate(endValue)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	if !end.After(start) {
		return start, end, ErrInvalidPeriod
	}

	return start, end, nil
}
