package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studykit/core/internal/config"
	"github.com/studykit/core/internal/llm"
	"go.uber.org/zap"
)

const scheduleMaxTokens = 3000

// ErrBadScheduleInput is returned for missing or out-of-range inputs.
var ErrBadScheduleInput = errors.New("invalid schedule input")

const scheduleSystemPrompt = `You are a study schedule generator. Your task is to create a detailed, 4-week study plan for a given month in a grid format.

Based on the provided subjects and user availability, you must generate a schedule organized by time slots and subjects for each of the four weeks.

1.  **Set the Month:** The 'month' field should be set to the month of the exam (e.g., "SEPTEMBER").
2.  **Create Schedule Rows:** Each item in the 'schedule' array represents a row and must contain:
    *   A 'time' slot (e.g., "8 to 11", "13 to 15").
    *   The 'subject' to be studied at that specific time.
    *   The tasks for 'week1', 'week2', 'week3', and 'week4'. If there is no task for a week, the value should be an empty string.
3.  **Distribute the Workload:** Logically distribute the study subjects and tasks throughout the weeks.

The output must be a single JSON object with a 'month' field and a 'schedule' array. Return only the JSON object with no surrounding prose.`

const dailyPlanSystemPrompt = `You are an expert academic planner. Your task is to take a list of subjects and create a detailed weekly study schedule in a grid format for a specific week.

You must structure the output as a list of time slots. For each time slot, you must specify the course and the tasks for each day of the week (Monday to Sunday). If there is no task for a particular day in a time slot, the value should be an empty string.

The output must be a single JSON object with a 'weekly_schedule' array of objects carrying 'time', 'course', 'monday' through 'sunday' fields. Return only the JSON object with no surrounding prose.`

// ScheduleRow is one time-slot row of the monthly grid.
type ScheduleRow struct {
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Week1   string `json:"week1"`
	Week2   string `json:"week2"`
	Week3   string `json:"week3"`
	Week4   string `json:"week4"`
}

// MonthlySchedule is the 4-week study grid.
type MonthlySchedule struct {
	Month    string        `json:"month"`
	Schedule []ScheduleRow `json:"schedule"`
}

// DailyPlanRow is one time-slot row of the weekly grid.
type DailyPlanRow struct {
	Time      string `json:"time"`
	Course    string `json:"course"`
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// WeeklyPlan is the day-by-day plan for one week.
type WeeklyPlan struct {
	WeeklySchedule []DailyPlanRow `json:"weekly_schedule"`
}

// Service generates study schedules and weekly plans.
type Service struct {
	ai     *llm.Client
	cfg    config.AIConfig
	goals  *GoalStore
	logger *zap.Logger
}

func NewService(ai *llm.Client, cfg config.AIConfig, goals *GoalStore, logger *zap.Logger) *Service {
	return &Service{ai: ai, cfg: cfg, goals: goals, logger: logger}
}

// GenerateMonthly builds the 4-week grid for the exam month.
func (s *Service) GenerateMonthly(ctx context.Context, examDate, subjects, availability string) (*MonthlySchedule, error) {
	if strings.TrimSpace(subjects) == "" {
		return nil, fmt.Errorf("%w: subjects are required", ErrBadScheduleInput)
	}
	if strings.TrimSpace(availability) == "" {
		return nil, fmt.Errorf("%w: availability is required", ErrBadScheduleInput)
	}

	prompt := fmt.Sprintf("Exam Date: %s\nSubjects: %s\nAvailability: %s", examDate, subjects, availability)

	var schedule MonthlySchedule
	err := s.ai.GenerateJSON(ctx, llm.Request{
		System:          scheduleSystemPrompt,
		Prompt:          prompt,
		Assignment:      s.cfg.TransformModel,
		MaxOutputTokens: scheduleMaxTokens,
	}, &schedule)
	if err != nil {
		return nil, err
	}
	if len(schedule.Schedule) == 0 {
		return nil, &llm.IncompleteArtifactError{Reason: "schedule grid is empty"}
	}
	return &schedule, nil
}

// GenerateWeekly expands one week of the monthly grid into a day-by-day plan.
func (s *Service) GenerateWeekly(ctx context.Context, subject, weeklyTopic string, weekNumber int) (*WeeklyPlan, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrBadScheduleInput)
	}
	if weekNumber < 1 || weekNumber > 4 {
		return nil, fmt.Errorf("%w: week number must be between 1 and 4", ErrBadScheduleInput)
	}

	prompt := fmt.Sprintf("Subjects: %s\nWeek %d Topic: %s\n\nGenerate a detailed plan in the requested grid format.",
		subject, weekNumber, weeklyTopic)

	var plan WeeklyPlan
	err := s.ai.GenerateJSON(ctx, llm.Request{
		System:          dailyPlanSystemPrompt,
		Prompt:          prompt,
		Assignment:      s.cfg.TransformModel,
		MaxOutputTokens: scheduleMaxTokens,
	}, &plan)
	if err != nil {
		return nil, err
	}
	if len(plan.WeeklySchedule) == 0 {
		return nil, &llm.IncompleteArtifactError{Reason: "weekly plan is empty"}
	}
	return &plan, nil
}
