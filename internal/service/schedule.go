package service

import (
	"context"
	"time"

	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"github.com/shiftdesk-dev/shiftdesk/internal/repository"
	"github.com/shiftdesk-dev/shiftdesk/internal/types"
)

type ShiftInput struct {
	Start    time.Time
	End      time.Time
	Role     string
	Location string
	Notes    string
	Status   string
}

type CreateScheduleInput struct {
	EventName   string
	Company     string
	Department  string
	HoursNeeded int
	Username    string
	Shifts      []ShiftInput
}

type ScheduleService interface {
	Create(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error)
	FindByDepartment(ctx context.Context, department string) ([]models.Schedule, error)
	FindByUser(ctx context.Context, username string) ([]models.Schedule, error)
}

type scheduleService struct {
	schedules repository.ScheduleRepository
}

func NewScheduleService(schedules repository.ScheduleRepository) ScheduleService {
	return &scheduleService{schedules: schedules}
}

// Create normalizes the text fields and stores the schedule with its shifts
// in submission order. Shift times are stored verbatim; ordering and overlap
// are not checked.
func (s *scheduleService) Create(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	schedule := &models.Schedule{
		EventName:   normalize(in.EventName),
		Company:     normalize(in.Company),
		Department:  normalize(in.Department),
		HoursNeeded: in.HoursNeeded,
		Username:    normalize(in.Username),
	}

	for i, shift := range in.Shifts {
		status := shift.Status
		if status == "" {
			status = types.ShiftScheduled
		}
		schedule.Shifts = append(schedule.Shifts, models.Shift{
			Position: i,
			Start:    shift.Start,
			End:      shift.End,
			Role:     shift.Role,
			Location: shift.Location,
			Notes:    shift.Notes,
			Status:   status,
		})
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// FindByDepartment treats an empty result as a failure, not an empty success.
func (s *scheduleService) FindByDepartment(ctx context.Context, department string) ([]models.Schedule, error) {
	schedules, err := s.schedules.FindByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrNoSchedules
	}
	return schedules, nil
}

func (s *scheduleService) FindByUser(ctx context.Context, username string) ([]models.Schedule, error) {
	schedules, err := s.schedules.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, ErrNoSchedules
	}
	return schedules, nil
}
