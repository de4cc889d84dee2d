package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type taskRepo struct{ db *gorm.DB }

func NewTaskRepository(db *gorm.DB) repository.TaskRepository { return &taskRepo{db: db} }

func (r *taskRepo) Create(ctx context.Context, task *models.TestTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) CreateBatch(ctx context.Context, tasks []models.TestTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(tasks, 100).Error
}

func (r *taskRepo) Save(ctx context.Context, task *models.TestTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.TestTask{}, "id = ?", id))
}

func (r *taskRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TestTask, error) {
	var task models.TestTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *taskRepo) ListByTest(ctx context.Context, testID uuid.UUID) ([]models.TestTask, error) {
	var tasks []models.TestTask
	err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Scopes(oldestFirst).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) List(ctx context.Context) ([]models.TestTask, error) {
	var tasks []models.TestTask
	err := r.db.WithContext(ctx).Find(&tasks).Error
	return tasks, err
}
