package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"github.com/shiftdesk-dev/shiftdesk/internal/service"
	"github.com/shiftdesk-dev/shiftdesk/internal/types"
)

type ScheduleHandler struct {
	schedules service.ScheduleService
	board     *Board
}

func NewScheduleHandler(schedules service.ScheduleService, board *Board) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, board: board}
}

type ShiftRequest struct {
	Start    time.Time `json:"start" binding:"required"`
	End      time.Time `json:"end" binding:"required"`
	Role     string    `json:"role"`
	Location string    `json:"location"`
	Notes    string    `json:"notes"`
	Status   string    `json:"status"`
}

type CreateScheduleRequest struct {
	EventName   string         `json:"eventName" binding:"required"`
	Company     string         `json:"company" binding:"required"`
	Department  string         `json:"department" binding:"required"`
	HoursNeeded int            `json:"hoursNeeded" binding:"required"`
	Username    string         `json:"username" binding:"required"`
	Shifts      []ShiftRequest `json:"shifts"`
}

type ShiftPayload struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Role     string    `json:"role"`
	Location string    `json:"location"`
	Notes    string    `json:"notes"`
	Status   string    `json:"status"`
}

type SchedulePayload struct {
	ID          uint           `json:"id"`
	EventName   string         `json:"eventName"`
	Company     string         `json:"company"`
	Department  string         `json:"department"`
	HoursNeeded int            `json:"hoursNeeded"`
	Username    string         `json:"username"`
	Shifts      []ShiftPayload `json:"shifts"`
}

func schedulePayload(schedule *models.Schedule) SchedulePayload {
	payload := SchedulePayload{
		ID:          schedule.ID,
		EventName:   schedule.EventName,
		Company:     schedule.Company,
		Department:  schedule.Department,
		HoursNeeded: schedule.HoursNeeded,
		Username:    schedule.Username,
		Shifts:      []ShiftPayload{},
	}
	for _, shift := range schedule.Shifts {
		payload.Shifts = append(payload.Shifts, ShiftPayload{
			Start:    shift.Start,
			End:      shift.End,
			Role:     shift.Role,
			Location: shift.Location,
			Notes:    shift.Notes,
			Status:   shift.Status,
		})
	}
	return payload
}

func schedulePayloads(schedules []models.Schedule) []SchedulePayload {
	payloads := make([]SchedulePayload, 0, len(schedules))
	for i := range schedules {
		payloads = append(payloads, schedulePayload(&schedules[i]))
	}
	return payloads
}

func (h *ScheduleHandler) Create(ctx *gin.Context) {
	var req CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		failedRequest(ctx, "Failed Operation", "Invalid Request Body", err.Error())
		return
	}

	in := service.CreateScheduleInput{
		EventName:   req.EventName,
		Company:     req.Company,
		Department:  req.Department,
		HoursNeeded: req.HoursNeeded,
		Username:    req.Username,
	}
	for _, shift := range req.Shifts {
		if shift.Status != "" && !types.ValidShiftStatus(shift.Status) {
			failedRequest(ctx, "Failed Operation", "Invalid Shift Status", shift.Status)
			return
		}
		in.Shifts = append(in.Shifts, service.ShiftInput{
			Start:    shift.Start,
			End:      shift.End,
			Role:     shift.Role,
			Location: shift.Location,
			Notes:    shift.Notes,
			Status:   shift.Status,
		})
	}

	schedule, err := h.schedules.Create(ctx.Request.Context(), in)
	if err != nil {
		log.Printf("Schedule creation failed: %v", err)
		failedRequest(ctx, "Failed Operation", "Failed Schedule Post", "Schedule Not Created")
		return
	}

	if h.board != nil {
		h.board.BroadcastRefresh(schedule.Department)
	}

	successfulRequest(ctx, "Successful Post", "New Schedule Successfully Submitted", schedulePayload(schedule))
}

func (h *ScheduleHandler) FindByDepartment(ctx *gin.Context) {
	department := ctx.Param("department")

	schedules, err := h.schedules.FindByDepartment(ctx.Request.Context(), department)
	if err != nil {
		if !errors.Is(err, service.ErrNoSchedules) {
			log.Printf("Department search failed: %v", err)
		}
		failedRequest(ctx, "Failed Search", "Unable To Locate Department", "No Schedules Found")
		return
	}

	successfulRequest(ctx, "Success", "Successful Search", schedulePayloads(schedules))
}

func (h *ScheduleHandler) FindByUser(ctx *gin.Context) {
	username := ctx.Param("username")

	schedules, err := h.schedules.FindByUser(ctx.Request.Context(), username)
	if err != nil {
		if !errors.Is(err, service.ErrNoSchedules) {
			log.Printf("User schedule search failed: %v", err)
		}
		failedRequest(ctx, "Failed Search", "Unable To Locate User", "No Schedules Found")
		return
	}

	successfulRequest(ctx, "Success", "Successful Search", schedulePayloads(schedules))
}
