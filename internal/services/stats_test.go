package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserService(db, discardLogger())
	stats := NewStatsService(db, discardLogger())
	store := NewCatalogStore(db, discardLogger())

	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	old := janeInput()
	old.RegistrationDate = "2024-01-01"
	_, err := users.CreateUser(ctx, old)
	require.NoError(t, err)

	recent := janeInput()
	recent.Username, recent.Email, recent.RegistrationDate = "new", "new@example.com", "2024-09-20"
	_, err = users.CreateUser(ctx, recent)
	require.NoError(t, err)

	_, err = store.CreateProduct(ctx, laptopInput())
	require.NoError(t, err)

	got, err := stats.Dashboard(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalUsers: 2, NewRegistrations: 1, TotalProducts: 1, TotalCategories: 2}, got)
}

func TestDashboardStatsOnEmptyDatabase(t *testing.T) {
	stats := NewStatsService(setupTestDB(t), discardLogger())

	got, err := stats.Dashboard(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, got)
}
