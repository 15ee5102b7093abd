package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	courseTTL    = 1 * time.Hour
	quizTTL      = 24 * time.Hour
	dashboardTTL = 5 * time.Minute
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, quizKey(quiz.ID), data, quizTTL).Err()
}

func (c *RedisCache) GetQuiz(quizID uint) (*models.Quiz, error) {
	data, err := c.client.Get(c.ctx, quizKey(quizID)).Bytes()
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err = json.Unmarshal(data, &quiz)
	return &quiz, err
}

func (c *RedisCache) InvalidateQuiz(quizID uint) error {
	return c.client.Del(c.ctx, quizKey(quizID)).Err()
}

func (c *RedisCache) SetCourseList(courses []models.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, "courses", data, courseTTL).Err()
}

func (c *RedisCache) GetCourseList() ([]models.Course, error) {
	data, err := c.client.Get(c.ctx, "courses").Bytes()
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	err = json.Unmarshal(data, &courses)
	return courses, err
}

func (c *RedisCache) SetCourse(course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, courseKey(course.ID), data, courseTTL).Err()
}

func (c *RedisCache) GetCourse(courseID uint) (*models.Course, error) {
	data, err := c.client.Get(c.ctx, courseKey(courseID)).Bytes()
	if err != nil {
		return nil, err
	}

	var course models.Course
	err = json.Unmarshal(data, &course)
	return &course, err
}

// InvalidateCourses drops both the list and the single-course entry after
// an admin write.
func (c *RedisCache) InvalidateCourses(courseID uint) error {
	return c.client.Del(c.ctx, "courses", courseKey(courseID)).Err()
}

// SetDashboard stores a user's computed dashboard with a short TTL; the
// stats are cheap to recompute but hit several tables.
func (c *RedisCache) SetDashboard(userID uint, stats interface{}) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, dashboardKey(userID), data, dashboardTTL).Err()
}

func (c *RedisCache) GetDashboard(userID uint, out interface{}) error {
	data, err := c.client.Get(c.ctx, dashboardKey(userID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *RedisCache) InvalidateDashboard(userID uint) error {
	return c.client.Del(c.ctx, dashboardKey(userID)).Err()
}

func quizKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d", quizID)
}

func courseKey(courseID uint) string {
	return fmt.Sprintf("course:%d", courseID)
}

func dashboardKey(userID uint) string {
	return fmt.Sprintf("dashboard:%d", userID)
}
