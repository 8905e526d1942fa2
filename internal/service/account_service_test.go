package service

import (
	"context"
	"testing"

	"simple-ecommerce/internal/apperr"
	"simple-ecommerce/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressUpsert(t *testing.T) {
	repo := servicetest.NewMemStore()
	svc := NewAccountService(repo, repo)
	ctx := context.Background()
	user := repo.AddUser("a@example.com")

	addr, err := svc.GetAddress(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, addr)

	req := &AddressRequest{
		FullName: "A", Phone: "555", AddressLine1: "1 Main St",
		City: "Town", State: "ST", PostalCode: "12345", Country: "Nowhere",
	}
	first, err := svc.SaveAddress(ctx, user.ID, req)
	require.NoError(t, err)

	req.City = "Other Town"
	second, err := svc.SaveAddress(ctx, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	addr, err = svc.GetAddress(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Other Town", addr.City)
	assert.Empty(t, addr.AddressLine2)

	req.PostalCode = " "
	_, err = svc.SaveAddress(ctx, user.ID, req)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Please enter complete address", apperr.From(err).Message)
}

func TestProfile(t *testing.T) {
	repo := servicetest.NewMemStore()
	svc := NewAccountService(repo, repo)
	ctx := context.Background()
	user := repo.AddUser("a@example.com")

	assert.True(t, apperr.Is(svc.UpdateProfile(ctx, user.ID, &ProfileRequest{}), apperr.KindValidation))
	require.NoError(t, svc.UpdateProfile(ctx, user.ID, &ProfileRequest{Name: "Alice", Phone: "555"}))

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)
	assert.Equal(t, "555", me.Phone)

	_, err = svc.Me(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
