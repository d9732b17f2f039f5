package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/app/service"
	"github.com/bazely/bazely-backend/pkg/logger"
)

// DigestScheduler posts a daily marketplace digest to the social feed:
// how many stores and products opened the previous day. Days with no
// activity post nothing.
type DigestScheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	announcer service.Announcer
}

func NewDigestScheduler(db *gorm.DB, announcer service.Announcer) *DigestScheduler {
	return &DigestScheduler{
		cron:      cron.New(),
		db:        db,
		announcer: announcer,
	}
}

func (s *DigestScheduler) Start() error {
	// Daily at 09:00 server time.
	_, err := s.cron.AddFunc("0 9 * * *", s.runDigest)
	if err != nil {
		logger.Error("Failed to add cron job for daily digest", err)
		return err
	}

	s.cron.Start()
	logger.Info("Daily digest scheduler started (daily at 9:00 AM)", nil)
	return nil
}

func (s *DigestScheduler) Stop() {
	logger.Info("Stopping daily digest scheduler", nil)
	s.cron.Stop()
}

func (s *DigestScheduler) runDigest() {
	logger.Info("Starting daily digest", nil)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := dayStart.AddDate(0, 0, -1)

	stores, products, err := s.countCreatedBetween(since, dayStart)
	if err != nil {
		logger.Error("Failed to gather digest counts", err)
		return
	}

	if stores == 0 && products == 0 {
		logger.Info("No new stores or products yesterday, skipping digest", nil)
		return
	}

	text := fmt.Sprintf(
		"📈 Marketplace update: %d new store(s) and %d new product(s) opened yesterday. Come take a look!\n\n#eCommerce #Marketplace",
		stores, products,
	)
	status := s.announcer.Announce(context.Background(), text)

	logger.Info("Daily digest finished", map[string]interface{}{
		"new_stores":   stores,
		"new_products": products,
		"status":       string(status),
	})
}

func (s *DigestScheduler) countCreatedBetween(from, to time.Time) (int64, int64, error) {
	var stores, products int64
	if err := s.db.Model(&model.Store{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&stores).Error; err != nil {
		return 0, 0, err
	}
	if err := s.db.Model(&model.Product{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&products).Error; err != nil {
		return 0, 0, err
	}
	return stores, products, nil
}
