package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"vrent/infras/otel"
	"vrent/infras/postgres"
	"vrent/internal/domains/customer/model"
	gDto "vrent/shared/dto"
	gRepo "vrent/shared/repository"
)

type Customer interface {
	Insert(ctx context.Context, model model.Customer) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Customer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Customer, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Customer]
}

func New(db *postgres.Connection, otel otel.Otel) Customer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Customer](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
