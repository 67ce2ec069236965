package model

import (
	"time"

	"vrent/shared/model"
)

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID            = "id"
	FieldName          = "name"
	FieldTaxID         = "tax_id"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldCity          = "city"
	FieldState         = "state"
	FieldBirthDate     = "birth_date"
	FieldDriverLicense = "driver_license"

	ConstraintTaxID = "customers_tax_id_key"
	ConstraintEmail = "customers_email_key"
)

type Customer struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	TaxID         string     `db:"tax_id"`
	Email         string     `db:"email"`
	Phone         string     `db:"phone"`
	Address       string     `db:"address"`
	City          string     `db:"city"`
	State         string     `db:"state"`
	ZipCode       string     `db:"zip_code"`
	BirthDate     *time.Time `db:"birth_date"`
	DriverLicense string     `db:"driver_license"`
	model.Metadata
}
