package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/example/abstore/internal/models"
)

// NewRegistrationWindow is how far back a registration counts as new.
const NewRegistrationWindow = 30 * 24 * time.Hour

// Stats feeds the admin dashboard.
type Stats struct {
	TotalUsers       int64 `json:"totalUsers"`
	NewRegistrations int64 `json:"newRegistrations"`
	TotalProducts    int64 `json:"totalProducts"`
	TotalCategories  int64 `json:"totalCategories"`
}

// StatsService counts rows across users and the catalog.
type StatsService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewStatsService(db *gorm.DB, log *slog.Logger) *StatsService {
	return &StatsService{db: db, log: log.With("component", "stats")}
}

// Dashboard aggregates user and catalog counts as of now.
func (s *StatsService) Dashboard(ctx context.Context, now time.Time) (Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx)

	since := models.NewDate(now.Add(-NewRegistrationWindow))
	counts := []struct {
		op    string
		query *gorm.DB
		dest  *int64
	}{
		{"count users", db.Model(&models.User{}), &stats.TotalUsers},
		{"count new registrations", db.Model(&models.User{}).Where("registration_date >= ?", since), &stats.NewRegistrations},
		{"count products", db.Model(&models.Product{}), &stats.TotalProducts},
		{"count categories", db.Model(&models.Category{}), &stats.TotalCategories},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			s.log.ErrorContext(ctx, c.op+" failed", "error", err)
			return Stats{}, &StorageError{Op: c.op, Err: err}
		}
	}

	return stats, nil
}
