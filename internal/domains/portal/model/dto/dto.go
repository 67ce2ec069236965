package dto

import (
	customerDto "vrent/internal/domains/customer/model/dto"
	rentalDto "vrent/internal/domains/rental/model/dto"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	TaxID string `json:"tax_id" validate:"required,taxid"`
}

// UpdateProfileRequest is the subset of customer fields a customer may change.
type UpdateProfileRequest struct {
	Email   string `json:"email"    validate:"omitempty,email,max=150"`
	Phone   string `json:"phone"    validate:"omitempty,max=30"`
	Address string `json:"address"  validate:"omitempty,max=255"`
	City    string `json:"city"     validate:"omitempty,max=100"`
	State   string `json:"state"    validate:"omitempty,len=2"`
	ZipCode string `json:"zip_code" validate:"omitempty,max=10"`
}

func (u *UpdateProfileRequest) ToCustomerUpdate() customerDto.UpdateCustomerRequest {
	return customerDto.UpdateCustomerRequest{
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
		City:    u.City,
		State:   u.State,
		ZipCode: u.ZipCode,
	}
}

type Stats struct {
	TotalRentals     int    `json:"total_rentals"`
	CompletedRentals int    `json:"completed_rentals"`
	TotalSpent       string `json:"total_spent"`
}

func NewStats(total, completed int, spent decimal.Decimal) Stats {
	return Stats{
		TotalRentals:     total,
		CompletedRentals: completed,
		TotalSpent:       spent.StringFixed(2),
	}
}

type RentalsResponse struct {
	rentalDto.GetRentalsResponse
	Stats Stats `json:"stats"`
}
