package model

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	"vrent/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rentals"
	EntityName = "rental"

	FieldID          = "id"
	FieldCustomerID  = "customer_id"
	FieldVehicleID   = "vehicle_id"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldDaysRented  = "days_rented"
	FieldDailyRate   = "daily_rate"
	FieldTotalAmount = "total_amount"
	FieldStatus      = "status"
	FieldNotes       = "notes"

	// ConstraintOpenVehicle is the partial unique index allowing one open rental per vehicle.
	ConstraintOpenVehicle = "rentals_open_vehicle_key"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Action string

const (
	ActionActivate Action = "activate"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

var (
	ErrInvalidTransition = &failure.Failure{Code: http.StatusConflict, Message: "invalid status transition"}
	ErrRentalNotEditable = &failure.Failure{Code: http.StatusUnprocessableEntity, Message: "rental can only be edited while pending or active"}
)

var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionActivate: StatusActive,
		ActionCancel:   StatusCancelled,
	},
	StatusActive: {
		ActionComplete: StatusCompleted,
		ActionCancel:   StatusCancelled,
	},
}

// OpenStatuses hold the vehicle.
var OpenStatuses = []Status{StatusPending, StatusActive}

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusActive, StatusCompleted, StatusCancelled}

func ParseStatus(value string) (Status, bool) {
	status := Status(value)

	return status, slices.Contains(Statuses, status)
}

// Next returns the status reached by applying action, or an error wrapping
// ErrInvalidTransition when the table has no such edge.
func (s Status) Next(action Action) (Status, error) {
	next, ok := transitions[s][action]
	if !ok {
		return s, fmt.Errorf("%w: cannot %s a %s rental", ErrInvalidTransition, action, s)
	}

	return next, nil
}

func (s Status) Open() bool {
	return slices.Contains(OpenStatuses, s)
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) Editable() bool {
	return s.Open()
}

type Rental struct {
	ID          string          `db:"id"`
	CustomerID  string          `db:"customer_id"`
	VehicleID   string          `db:"vehicle_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	DaysRented  int             `db:"days_rented"`
	DailyRate   decimal.Decimal `db:"daily_rate"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Status      Status          `db:"status"`
	Notes       string          `db:"notes"`

	CustomerName string `column:"name"  db:"customer_name" table:"customers"`
	VehicleBrand string `column:"brand" db:"vehicle_brand" table:"vehicles"`
	VehicleModel string `column:"model" db:"vehicle_model" table:"vehicles"`
	VehiclePlate string `column:"plate" db:"vehicle_plate" table:"vehicles"`
	model.Metadata
}

func (Rental) GetJoinQuery() string {
	return "JOIN customers ON customers.id = rentals.customer_id JOIN vehicles ON vehicles.id = rentals.vehicle_id"
}

// InStatus matches rental id only while it still holds status.
func InStatus(id string, status Status) gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	group.Add(
		gDto.Eq(TableName, FieldID, id),
		gDto.Eq(TableName, FieldStatus, string(status)),
	)

	return group
}

// OpenFor matches pending or active rentals whose field equals id.
func OpenFor(field, id string) gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	group.Add(
		gDto.Eq(TableName, field, id),
		gDto.In(TableName, FieldStatus, OpenStatuses),
	)

	return group
}
