package postgres

import (
	"context"
	"errors"

	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/entity"
	"gorm.io/gorm"
)

type RenderJobStorage struct {
	db *gorm.DB
}

func NewRenderJobStorage(db *gorm.DB) *RenderJobStorage {
	return &RenderJobStorage{
		db: db,
	}
}

// Create is a function that stores a finished render job.
func (s *RenderJobStorage) Create(ctx context.Context, job *entity.RenderJob) (*entity.RenderJob, error) {
	err := s.db.WithContext(ctx).Create(job).Error
	return job, err
}

// Get is a function that gets a render job from the database by id.
func (s *RenderJobStorage) Get(ctx context.Context, id string) (*entity.RenderJob, error) {
	var job entity.RenderJob
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.ErrJobNotFound
	}
	return &job, err
}

// GetLatest is a function that gets the most recent render jobs.
func (s *RenderJobStorage) GetLatest(ctx context.Context, limit int) ([]entity.RenderJob, error) {
	var jobs []entity.RenderJob
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// Count is a function that gets the count of render jobs from the database.
func (s *RenderJobStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.RenderJob{}).Count(&count).Error
	return count, err
}
