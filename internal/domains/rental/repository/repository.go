package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"vrent/infras/otel"
	"vrent/infras/postgres"
	"vrent/internal/domains/rental/model"
	gDto "vrent/shared/dto"
	gRepo "vrent/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Rental interface {
	Insert(ctx context.Context, model model.Rental) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Rental) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Rental, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Rental, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Sum(ctx context.Context, column string, filter gDto.FilterGroup) (decimal.Decimal, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Rental]
}

func New(db *postgres.Connection, otel otel.Otel) Rental {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Rental](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
