package service

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
)

// DashboardStats is the landing-page summary. ExpiredItems is a read-time
// classification over PriceValidTill; nothing marks items expired in storage.
type DashboardStats struct {
	CurrentUser     *models.User  `json:"current_user"`
	TotalUsers      int64         `json:"total_users"`
	TotalItems      int64         `json:"total_items"`
	TotalCategories int64         `json:"total_categories"`
	ExpiredItems    int64         `json:"expired_items"`
	RecentlyExpired []models.Item `json:"recently_expired_items"`
}

// DashboardStats gathers the counts for the dashboard. The four counts are
// independent reads and are issued concurrently.
func (s *Service) DashboardStats(actor *models.User) (*DashboardStats, error) {
	if actor == nil {
		return nil, errs.ErrUnauthenticated
	}

	now := time.Now()
	stats := &DashboardStats{CurrentUser: actor}

	var g errgroup.Group
	g.Go(func() error {
		return s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return s.db.Model(&models.Item{}).Count(&stats.TotalItems).Error
	})
	g.Go(func() error {
		return s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error
	})
	g.Go(func() error {
		return s.db.Model(&models.Item{}).
			Where("price_valid_till < ?", now).
			Count(&stats.ExpiredItems).Error
	})
	if err := g.Wait(); err != nil {
		return nil, s.wrapDB(err, "Failed to fetch dashboard stats")
	}

	// Items whose prices lapsed within the last 7 days
	err := s.db.
		Where("price_valid_till < ? AND price_valid_till >= ?", now, now.AddDate(0, 0, -7)).
		Preload("Category").
		Limit(5).
		Find(&stats.RecentlyExpired).Error
	if err != nil {
		return nil, s.wrapDB(err, "Failed to fetch dashboard stats")
	}

	return stats, nil
}
