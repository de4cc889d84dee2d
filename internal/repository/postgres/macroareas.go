package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type macroareaRepo struct{ db *gorm.DB }

func NewMacroareaRepository(db *gorm.DB) repository.MacroareaRepository {
	return &macroareaRepo{db: db}
}

func (r *macroareaRepo) Create(ctx context.Context, macroarea *models.Macroarea) error {
	return translate(r.db.WithContext(ctx).Create(macroarea).Error)
}

func (r *macroareaRepo) Save(ctx context.Context, macroarea *models.Macroarea) error {
	return translate(r.db.WithContext(ctx).Save(macroarea).Error)
}

func (r *macroareaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&models.Macroarea{}, "id = ?", id))
}

func (r *macroareaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Macroarea, error) {
	var macroarea models.Macroarea
	if err := r.db.WithContext(ctx).First(&macroarea, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &macroarea, nil
}

func (r *macroareaRepo) FindByName(ctx context.Context, name string) (*models.Macroarea, error) {
	var macroarea models.Macroarea
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&macroarea).Error; err != nil {
		return nil, translate(err)
	}
	return &macroarea, nil
}

func (r *macroareaRepo) List(ctx context.Context) ([]models.Macroarea, error) {
	var macroareas []models.Macroarea
	err := r.db.WithContext(ctx).Scopes(oldestFirst).Find(&macroareas).Error
	return macroareas, err
}
