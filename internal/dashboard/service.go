package dashboard

import (
	"log"

	"learnhub/pkg/cache"
)

const recentAttemptLimit = 10

// Overview is the full dashboard payload for one student.
type Overview struct {
	Stats          *StudentStats   `json:"stats"`
	RecentAttempts []RecentAttempt `json:"recent_attempts"`
}

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
}

// NewService builds the dashboard service. cache may be nil.
func NewService(repo *Repository, cache *cache.RedisCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) GetOverview(userID uint) (*Overview, error) {
	if s.cache != nil {
		var cached Overview
		if err := s.cache.GetDashboard(userID, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.GetStudentStats(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.GetRecentAttempts(userID, recentAttemptLimit)
	if err != nil {
		return nil, err
	}

	overview := &Overview{Stats: stats, RecentAttempts: recent}
	if s.cache != nil {
		if err := s.cache.SetDashboard(userID, overview); err != nil {
			log.Printf("Error caching dashboard for user %d: %v", userID, err)
		}
	}
	return overview, nil
}
