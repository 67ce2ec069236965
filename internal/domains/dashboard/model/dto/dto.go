package dto

import (
	rentalDto "vrent/internal/domains/rental/model/dto"
)

// RecentRentalsLimit is how many rentals the dashboard shows.
const RecentRentalsLimit = 5

type StatsResponse struct {
	TotalCustomers    int                        `json:"total_customers"`
	TotalVehicles     int                        `json:"total_vehicles"`
	AvailableVehicles int                        `json:"available_vehicles"`
	TotalRentals      int                        `json:"total_rentals"`
	ActiveRentals     int                        `json:"active_rentals"`
	PendingRentals    int                        `json:"pending_rentals"`
	Revenue           string                     `json:"revenue"`
	RecentRentals     []rentalDto.RentalResponse `json:"recent_rentals"`
}
