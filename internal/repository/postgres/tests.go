package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testRepo struct{ db *gorm.DB }

func NewTestRepository(db *gorm.DB) repository.TestRepository { return &testRepo{db: db} }

func (r *testRepo) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepo) Save(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *testRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &test, nil
}

func (r *testRepo) List(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	err := r.db.WithContext(ctx).Scopes(newestFirst).Find(&tests).Error
	return tests, err
}

func (r *testRepo) ListByCreator(ctx context.Context, email string) ([]models.Test, error) {
	var tests []models.Test
	err := r.db.WithContext(ctx).
		Scopes(forCreator(email), newestFirst).
		Find(&tests).Error
	return tests, err
}

func (r *testRepo) ListByStatus(ctx context.Context, status models.TestStatus) ([]models.Test, error) {
	var tests []models.Test
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Scopes(newestFirst).
		Find(&tests).Error
	return tests, err
}

func (r *testRepo) ListByMacroarea(ctx context.Context, macroareaID uuid.UUID) ([]models.Test, error) {
	var tests []models.Test
	err := r.db.WithContext(ctx).
		Where("? = ANY(macroarea_ids)", macroareaID.String()).
		Scopes(newestFirst).
		Find(&tests).Error
	return tests, err
}
