package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateExpositor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SlotConfig{})

	inactive := false
	exp, err := env.expositors.CreateExpositor(ctx, CreateExpositorRequest{
		Name:       " Carlos ",
		LastName:   "Rodríguez",
		Email:      "carlos@ucv.ve",
		Speciality: "Orientación",
		IsActive:   &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Carlos", exp.Name)
	assert.False(t, exp.IsActive)
	require.NotNil(t, exp.Email)
	assert.Nil(t, exp.Phone)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.expositors.CreateExpositor(ctx, CreateExpositorRequest{
			Name:       "Otro",
			LastName:   "Expositor",
			Email:      "carlos@ucv.ve",
			Speciality: "Orientación",
		})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Equal(t, "Ya existe un expositor con este email", ErrorMessage(err))
	})

	t.Run("short names", func(t *testing.T) {
		_, err := env.expositors.CreateExpositor(ctx, CreateExpositorRequest{
			Name:       "A",
			LastName:   "B",
			Email:      "bad",
			Speciality: "Orientación",
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Issues, 3)
	})

	t.Run("get", func(t *testing.T) {
		got, err := env.expositors.GetExpositor(ctx, exp.ID)
		require.NoError(t, err)
		assert.Equal(t, exp.ID, got.ID)

		_, err = env.expositors.GetExpositor(ctx, 999)
		assert.ErrorIs(t, err, ErrExpositorNotFound)
	})
}

func TestUpdateExpositor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SlotConfig{})

	first, err := env.expositors.CreateExpositor(ctx, CreateExpositorRequest{
		Name: "Laura", LastName: "Martínez", Email: "laura@ucv.ve", Phone: "123", Speciality: "Emprendimiento",
	})
	require.NoError(t, err)
	_, err = env.expositors.CreateExpositor(ctx, CreateExpositorRequest{
		Name: "Carlos", LastName: "Rodríguez", Email: "carlos@ucv.ve", Speciality: "Orientación",
	})
	require.NoError(t, err)

	t.Run("keeping own email", func(t *testing.T) {
		got, err := env.expositors.UpdateExpositor(ctx, first.ID, UpdateExpositorRequest{
			Email:      strPtr("laura@ucv.ve"),
			Speciality: strPtr("Liderazgo"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Liderazgo", got.Speciality)
		assert.Equal(t, "Laura", got.Name)
	})

	t.Run("email of another expositor", func(t *testing.T) {
		_, err := env.expositors.UpdateExpositor(ctx, first.ID, UpdateExpositorRequest{Email: strPtr("carlos@ucv.ve")})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("empty string clears optional fields", func(t *testing.T) {
		got, err := env.expositors.UpdateExpositor(ctx, first.ID, UpdateExpositorRequest{
			Email: strPtr(""),
			Phone: strPtr(" "),
		})
		require.NoError(t, err)
		assert.Nil(t, got.Email)
		assert.Nil(t, got.Phone)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := env.expositors.UpdateExpositor(ctx, first.ID, UpdateExpositorRequest{
			Name:  strPtr("L"),
			Email: strPtr("nope"),
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		fields := []string{}
		for _, issue := range verr.Issues {
			fields = append(fields, issue.Field)
		}
		assert.ElementsMatch(t, []string{"name", "email"}, fields)
	})

	t.Run("missing expositor", func(t *testing.T) {
		_, err := env.expositors.UpdateExpositor(ctx, 999, UpdateExpositorRequest{Name: strPtr("Nadie")})
		assert.ErrorIs(t, err, ErrExpositorNotFound)
	})
}

func TestDeleteExpositor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, SlotConfig{})
	exp := env.expositor(t)
	slot := env.slot(t, exp.ID, "2025-03-10", "09:00", "10:00", 5)

	err := env.expositors.DeleteExpositor(ctx, exp.ID)
	assert.ErrorIs(t, err, ErrHasActiveSlots)

	_, err = env.slots.ToggleSlotActive(ctx, slot.ID, false)
	require.NoError(t, err)
	require.NoError(t, env.expositors.DeleteExpositor(ctx, exp.ID))

	list, err := env.expositors.ListExpositors(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, env.expositors.DeleteExpositor(ctx, exp.ID), ErrExpositorNotFound)
}
