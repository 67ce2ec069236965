package dto

import (
	"net/http"
	"strings"
	"time"

	"vrent/internal/domains/customer/model"
	"vrent/shared"
	"vrent/shared/constant"
	gDto "vrent/shared/dto"
	gModel "vrent/shared/model"
	"vrent/shared/timezone"
	"vrent/shared/validator"

	"github.com/google/uuid"
)

// SortableFields are the columns a customer listing may be ordered by.
var SortableFields = []string{model.FieldName, model.FieldCity, model.FieldState, constant.FieldCreatedAt}

type CreateCustomerRequest struct {
	Name          string `json:"name"           validate:"required,max=150"`
	TaxID         string `json:"tax_id"         validate:"required,taxid"`
	Email         string `json:"email"          validate:"required,email,max=150"`
	Phone         string `json:"phone"          validate:"omitempty,max=30"`
	Address       string `json:"address"        validate:"omitempty,max=255"`
	City          string `json:"city"           validate:"omitempty,max=100"`
	State         string `json:"state"          validate:"omitempty,len=2"`
	ZipCode       string `json:"zip_code"       validate:"omitempty,max=10"`
	BirthDate     string `json:"birth_date"     validate:"omitempty,isodate"`
	DriverLicense string `json:"driver_license" validate:"omitempty,max=20"`
}

func (c *CreateCustomerRequest) ToModel(actor string) (model.Customer, error) {
	birthDate, err := parseOptionalDate(c.BirthDate)
	if err != nil {
		return model.Customer{}, err
	}

	return model.Customer{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(c.Name),
		TaxID:         validator.NormalizeTaxID(c.TaxID),
		Email:         strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:         c.Phone,
		Address:       c.Address,
		City:          c.City,
		State:         strings.ToUpper(c.State),
		ZipCode:       c.ZipCode,
		BirthDate:     birthDate,
		DriverLicense: c.DriverLicense,
		Metadata:      gModel.Stamp(timezone.Now(), actor),
	}, nil
}

// UpdateCustomerRequest is a partial update. Empty fields are left untouched.
type UpdateCustomerRequest struct {
	Name          string `db:"name"           json:"name"           validate:"omitempty,max=150"`
	TaxID         string `db:"tax_id"         json:"tax_id"         validate:"omitempty,taxid"`
	Email         string `db:"email"          json:"email"          validate:"omitempty,email,max=150"`
	Phone         string `db:"phone"          json:"phone"          validate:"omitempty,max=30"`
	Address       string `db:"address"        json:"address"        validate:"omitempty,max=255"`
	City          string `db:"city"           json:"city"           validate:"omitempty,max=100"`
	State         string `db:"state"          json:"state"          validate:"omitempty,len=2"`
	ZipCode       string `db:"zip_code"       json:"zip_code"       validate:"omitempty,max=10"`
	BirthDate     string `json:"birth_date"     validate:"omitempty,isodate"`
	DriverLicense string `db:"driver_license" json:"driver_license" validate:"omitempty,max=20"`
}

func (u *UpdateCustomerRequest) Fields(actor string) (map[string]any, error) {
	normalized := *u
	normalized.TaxID = validator.NormalizeTaxID(u.TaxID)
	normalized.Email = strings.ToLower(strings.TrimSpace(u.Email))
	normalized.State = strings.ToUpper(u.State)

	fields := shared.TransformFields(normalized, actor)

	birthDate, err := parseOptionalDate(u.BirthDate)
	if err != nil {
		return nil, err
	}

	if birthDate != nil {
		fields[model.FieldBirthDate] = *birthDate
	}

	return fields, nil
}

type CustomerResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	BirthDate     string `json:"birth_date,omitempty"`
	DriverLicense string `json:"driver_license,omitempty"`
	gDto.Metadata
}

func (r *CustomerResponse) FromModel(model model.Customer) {
	r.ID = model.ID
	r.Name = model.Name
	r.TaxID = model.TaxID
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = model.Address
	r.City = model.City
	r.State = model.State
	r.ZipCode = model.ZipCode
	r.DriverLicense = model.DriverLicense

	if model.BirthDate != nil {
		r.BirthDate = model.BirthDate.Format(constant.DateOnlyFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCustomersResponse) FromModels(models []model.Customer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Customers = make([]CustomerResponse, len(models))
	for i, mod := range models {
		r.Customers[i].FromModel(mod)
	}
}

// CustomerFilter holds the listing filters accepted on GET /customers.
type CustomerFilter struct {
	Search string
	State  string
	City   string
}

func (f *CustomerFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Search = strings.TrimSpace(query.Get(constant.RequestParamSearch))
	f.State = strings.ToUpper(strings.TrimSpace(query.Get(model.FieldState)))
	f.City = strings.TrimSpace(query.Get(model.FieldCity))
}

func (f *CustomerFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if f.Search != "" {
		group.Add(gDto.AnyLike(model.TableName, f.Search, model.FieldName, model.FieldTaxID, model.FieldEmail))
	}

	if f.State != "" {
		group.Add(gDto.Eq(model.TableName, model.FieldState, f.State))
	}

	if f.City != "" {
		group.Add(gDto.Like(model.TableName, model.FieldCity, f.City))
	}

	return group
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	date, err := timezone.ParseDate(value)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
