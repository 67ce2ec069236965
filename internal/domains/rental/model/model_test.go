package model_test

import (
	"errors"
	"net/http"
	"testing"

	"vrent/internal/domains/rental/model"
	"vrent/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Next(t *testing.T) {
	allowed := map[model.Status]map[model.Action]model.Status{
		model.StatusPending: {model.ActionActivate: model.StatusActive, model.ActionCancel: model.StatusCancelled},
		model.StatusActive:  {model.ActionComplete: model.StatusCompleted, model.ActionCancel: model.StatusCancelled},
	}

	actions := []model.Action{model.ActionActivate, model.ActionComplete, model.ActionCancel}

	for _, from := range model.Statuses {
		for _, action := range actions {
			t.Run(string(from)+"/"+string(action), func(t *testing.T) {
				next, err := from.Next(action)

				if expected, ok := allowed[from][action]; ok {
					assert.NoError(t, err)
					assert.Equal(t, expected, next)

					return
				}

				assert.ErrorIs(t, err, model.ErrInvalidTransition)
				assert.Equal(t, from, next)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			})
		}
	}
}

func TestStatus_CancelTwice(t *testing.T) {
	cancelled, err := model.StatusPending.Next(model.ActionCancel)
	assert.NoError(t, err)

	again, err := cancelled.Next(model.ActionCancel)
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))
	assert.Equal(t, model.StatusCancelled, again)
	assert.Contains(t, err.Error(), "cannot cancel a cancelled rental")
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, model.StatusPending.Open())
	assert.True(t, model.StatusActive.Editable())
	assert.False(t, model.StatusCompleted.Editable())
	assert.True(t, model.StatusCompleted.Terminal())
	assert.True(t, model.StatusCancelled.Terminal())
	assert.False(t, model.StatusActive.Terminal())
}

func TestParseStatus(t *testing.T) {
	status, ok := model.ParseStatus("active")
	assert.True(t, ok)
	assert.Equal(t, model.StatusActive, status)

	_, ok = model.ParseStatus("ACTIVE")
	assert.False(t, ok)
}

func TestRental_GetJoinQuery(t *testing.T) {
	assert.Contains(t, model.Rental{}.GetJoinQuery(), "JOIN vehicles")
}

func TestOpenFor(t *testing.T) {
	group := model.OpenFor(model.FieldVehicleID, "v-1")

	where, args := group.GetWhereClause()

	assert.Contains(t, where, "rentals.vehicle_id = :vehicle_id")
	assert.Contains(t, where, "rentals.status IN (:status_0, :status_1)")
	assert.Equal(t, "v-1", args["vehicle_id"])
	assert.Equal(t, model.StatusPending, args["status_0"])
	assert.Equal(t, model.StatusActive, args["status_1"])
}
