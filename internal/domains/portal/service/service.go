package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Portal=MockPortalService

import (
	"context"
	"fmt"
	"net/http"

	"vrent/infras/jwt"
	"vrent/infras/otel"
	customerDto "vrent/internal/domains/customer/model/dto"
	customerService "vrent/internal/domains/customer/service"
	"vrent/internal/domains/portal/model"
	"vrent/internal/domains/portal/model/dto"
	rentalModel "vrent/internal/domains/rental/model"
	rentalDto "vrent/internal/domains/rental/model/dto"
	rentalRepo "vrent/internal/domains/rental/repository"
	rentalService "vrent/internal/domains/rental/service"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/failure"
	"vrent/shared/validator"

	"github.com/rs/zerolog/log"
)

const errUnknownTaxID = "no customer is registered with this tax id"

// Portal is the customer self-service surface. Every operation after Login
// acts on the customer named by the session and nothing else.
type Portal interface {
	Login(ctx context.Context, req dto.LoginRequest) (*jwt.Session, error)
	Authenticate(token string) (model.Session, error)
	Profile(ctx context.Context, session model.Session) (customerDto.CustomerResponse, error)
	UpdateProfile(ctx context.Context, session model.Session, req dto.UpdateProfileRequest) (customerDto.CustomerResponse, error)
	Rentals(ctx context.Context, session model.Session, req gDto.QueryParams) (dto.RentalsResponse, error)
}

type serviceImpl struct {
	customers customerService.Customer
	rentals   rentalService.Rental
	rentalDB  rentalRepo.Rental
	jwt       jwt.JWT
	otel      otel.Otel
}

func New(
	customers customerService.Customer,
	rentals rentalService.Rental,
	rentalDB rentalRepo.Rental,
	jwt jwt.JWT,
	otel otel.Otel,
) Portal {
	return &serviceImpl{
		customers: customers,
		rentals:   rentals,
		rentalDB:  rentalDB,
		jwt:       jwt,
		otel:      otel,
	}
}

// Login trades a registered tax id for a signed session token.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res *jwt.Session, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return nil, err //nolint:wrapcheck
	}

	customer, err := s.customers.GetByTaxID(ctx, req.TaxID)
	if err != nil {
		if failure.GetCode(err) == http.StatusNotFound {
			return nil, failure.Unauthorized(errUnknownTaxID) // nolint:wrapcheck
		}

		return nil, fmt.Errorf("failed to look up portal customer: %w", err)
	}

	res, err = s.jwt.IssueSession(customer.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue portal session")

		return nil, fmt.Errorf("failed to issue portal session: %w", err)
	}

	log.Info().Str("customerID", customer.ID).Msg("portal session issued")

	return res, nil
}

func (s *serviceImpl) Authenticate(token string) (model.Session, error) {
	claims, err := s.jwt.ValidateSession(token)
	if err != nil {
		return model.Session{}, failure.Unauthorized(err.Error()) // nolint:wrapcheck
	}

	session := model.Session{CustomerID: claims.CustomerID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}

func (s *serviceImpl) Profile(ctx context.Context, session model.Session) (res customerDto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Profile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.customers.Get(ctx, session.CustomerID) //nolint:wrapcheck
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, session model.Session, req dto.UpdateProfileRequest) (res customerDto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.customers.Update(ctx, req.ToCustomerUpdate(), session.CustomerID) //nolint:wrapcheck
}

// Rentals lists the session customer's rentals with lifetime stats.
func (s *serviceImpl) Rentals(ctx context.Context, session model.Session, req gDto.QueryParams) (res dto.RentalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Rentals")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.GetRentalsResponse, err = s.rentals.ByCustomer(ctx, session.CustomerID, req)
	if err != nil {
		return res, fmt.Errorf("failed to list portal rentals: %w", err)
	}

	completed := rentalDto.RentalFilter{CustomerID: session.CustomerID, Status: rentalModel.StatusCompleted}

	completedCount, err := s.rentalDB.Count(ctx, completed.ToFilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to count completed rentals")

		return res, fmt.Errorf("failed to count completed rentals: %w", err)
	}

	spent, err := s.rentalDB.Sum(ctx, rentalModel.FieldTotalAmount, completed.ToFilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to sum customer spending")

		return res, fmt.Errorf("failed to sum customer spending: %w", err)
	}

	res.Stats = dto.NewStats(res.TotalData, completedCount, spent)

	return res, nil
}
