package profiles

import (
	"context"
	"testing"

	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	svc := &Service{DB: testutil.NewDB(t)}
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Username: " juan ", Email: "Juan@Example.com", FirstName: "Juan"})
	require.NoError(t, err)
	assert.Equal(t, "juan", p.Username)
	assert.Equal(t, "juan@example.com", p.Email)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.FirstName)

	_, err = svc.Get(ctx, 404)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Profile not found", err.Error())
}

func TestCreate_Validation(t *testing.T) {
	svc := &Service{DB: testutil.NewDB(t)}
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Username: ""})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{Username: "ana", Email: "not-an-email"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{Username: "ana"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Username: "ana"})
	assert.True(t, apperrors.IsValidation(err))
}
