package dto_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vrent/shared/constant"
	"vrent/shared/dto"
	"vrent/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "front-desk",
		ModifiedBy: "manager",
	})

	if metadata.CreatedAt != createdAt.Format(constant.DateFormat) {
		t.Errorf("expected CreatedAt to be %s, got %s", createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	}

	if metadata.ModifiedAt != modifiedAt.Format(constant.DateFormat) {
		t.Errorf("expected ModifiedAt to be %s, got %s", modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "front-desk" || metadata.ModifiedBy != "manager" {
		t.Errorf("unexpected actors: %+v", metadata)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		rawQuery       string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			rawQuery: "page=2&limit=20&sort_by=brand&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "brand", SortDir: "ASC"},
		},
		{
			name:           "defaults when empty",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "invalid numbers fall back to defaults",
			rawQuery:       "page=-1&limit=abc",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			rawQuery: "sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/vehicles?"+tt.rawQuery, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			if params != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}
		})
	}
}

func TestQueryParams_Sanitize(t *testing.T) {
	params := dto.QueryParams{SortBy: "daily_rate; DROP TABLE rentals", SortDir: dto.SortDirAsc}
	params.Sanitize("daily_rate", "year")

	if params.SortBy != constant.DefaultValueSortBy || params.SortDir != constant.DefaultValueSortDir {
		t.Errorf("expected default ordering, got %+v", params)
	}

	params = dto.QueryParams{SortBy: "year"}
	params.Sanitize("daily_rate", "year")

	if params.SortBy != "year" || params.SortDir != dto.SortDirAsc {
		t.Errorf("expected year ASC, got %+v", params)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		clause   string
		argName  string
		argValue any
	}{
		{
			name:     "eq",
			filter:   dto.Eq("rentals", "status", "active"),
			clause:   "rentals.status = :status",
			argName:  "status",
			argValue: "active",
		},
		{
			name:     "like",
			filter:   dto.Like("vehicles", "color", "red"),
			clause:   "LOWER(vehicles.color) LIKE LOWER(:color) ",
			argName:  "color",
			argValue: "%red%",
		},
		{
			name:     "greater or equal with arg name",
			filter:   dto.Gte("vehicles", "daily_rate", "min_daily_rate", 100),
			clause:   "vehicles.daily_rate >= :min_daily_rate",
			argName:  "min_daily_rate",
			argValue: 100,
		},
		{
			name:     "less or equal with arg name",
			filter:   dto.Lte("vehicles", "mileage", "max_mileage", 5000),
			clause:   "vehicles.mileage <= :max_mileage",
			argName:  "max_mileage",
			argValue: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.GetWhereClause()

			if clause != tt.clause {
				t.Errorf("expected clause %q, got %q", tt.clause, clause)
			}

			if args[tt.argName] != tt.argValue {
				t.Errorf("expected arg %s to be %v, got %v", tt.argName, tt.argValue, args[tt.argName])
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.NewFilterGroup(dto.FilterGroupOperatorAnd)

	if !group.Empty() {
		t.Fatal("expected new group to be empty")
	}

	clause, _ := group.GetWhereClause()
	if clause != "" {
		t.Errorf("expected empty clause, got %q", clause)
	}

	group.Add(
		dto.In("rentals", "status", []string{"pending", "active"}),
		dto.AnyLike("customers", "ana", "name", "email"),
	)

	clause, args := group.GetWhereClause()

	if !strings.HasPrefix(clause, "(rentals.status IN (:status_0, :status_1)") {
		t.Errorf("unexpected clause %q", clause)
	}

	if !strings.Contains(clause, " OR ") {
		t.Errorf("expected OR between search columns, got %q", clause)
	}

	if args["status_0"] != "pending" || args["status_1"] != "active" {
		t.Errorf("unexpected IN args: %v", args)
	}

	if args["search_name"] != "%ana%" || args["search_email"] != "%ana%" {
		t.Errorf("unexpected search args: %v", args)
	}
}
