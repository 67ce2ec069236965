package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"vrent/infras/otel"
	"vrent/infras/postgres"
	rentalModel "vrent/internal/domains/rental/model"
	"vrent/internal/domains/vehicle/model"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	"vrent/shared/logger"
	gRepo "vrent/shared/repository"
	"vrent/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Vehicle interface {
	Insert(ctx context.Context, model model.Vehicle) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Vehicle, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Vehicle, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// ReleaseHeld flips vehicles that are flagged available while an open rental
	// references them. It returns the number of corrected rows.
	ReleaseHeld(ctx context.Context, actor string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Vehicle]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Vehicle {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Vehicle](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) ReleaseHeld(ctx context.Context, actor string) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vehicle.ReleaseHeld")
	defer scope.End()

	query := fmt.Sprintf(`UPDATE %[1]s SET %[2]s = false, %[3]s = :modified_at, %[4]s = :modified_by
		WHERE %[1]s.%[2]s AND EXISTS (
			SELECT 1 FROM %[5]s WHERE %[5]s.%[6]s = %[1]s.%[7]s AND %[5]s.%[8]s IN (:pending, :active)
		)`,
		model.TableName, model.FieldIsAvailable, constant.FieldModifiedAt, constant.FieldModifiedBy,
		rentalModel.TableName, rentalModel.FieldVehicleID, model.FieldID, rentalModel.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err := r.db.Write.NamedExecContext(ctx, query, map[string]any{
		"modified_at": timezone.Now(),
		"modified_by": actor,
		"pending":     rentalModel.StatusPending,
		"active":      rentalModel.StatusActive,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to reconcile vehicle availability: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read reconciled rows: %w", err)
	}

	return affected, nil
}
