package repository

import (
	"context"

	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	FindByDepartment(ctx context.Context, department string) ([]models.Schedule, error)
	FindByUsername(ctx context.Context, username string) ([]models.Schedule, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) FindByDepartment(ctx context.Context, department string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Shifts", orderShifts).
		Where("department = ?", department).
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) FindByUsername(ctx context.Context, username string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Shifts", orderShifts).
		Where("username = ?", username).
		Find(&schedules).Error
	return schedules, err
}

func orderShifts(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
