package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/calendar"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/recurrence"
	"github.com/example/studio-scheduler/internal/scheduling"
)

// ScheduleRepository captures the persistence interactions needed by the service.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	UpdateSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	ListSchedules(ctx context.Context, filter ScheduleRepositoryFilter) ([]Schedule, error)
}

// ScheduleRepositoryFilter narrows queries issued to the schedule repository.
type ScheduleRepositoryFilter struct {
	Type      *ClassType
	TrainerID *string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// BookingRepository captures the persistence interactions for schedule bookings.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status BookingStatus, updatedAt time.Time) (Booking, error)
	ListBookingsForSchedule(ctx context.Context, scheduleID string) ([]Booking, error)
}

// TrainerCatalog exposes trainer lookup operations.
type TrainerCatalog interface {
	TrainerExists(ctx context.Context, id string) (bool, error)
}

// RecurringClassRepository captures persistence for weekly class templates.
type RecurringClassRepository interface {
	CreateRecurringClass(ctx context.Context, template RecurringClass) (RecurringClass, error)
	ListRecurringClasses(ctx context.Context) ([]RecurringClass, error)
	DeleteRecurringClass(ctx context.Context, id string) error
}

// ScheduleService orchestrates validation and persistence for schedule operations.
type ScheduleService struct {
	schedules   ScheduleRepository
	bookings    BookingRepository
	trainers    TrainerCatalog
	recurring   RecurringClassRepository
	engine      *recurrence.Engine
	months      *monthCache
	idGenerator func() string
	now         func() time.Time
}

// NewScheduleService wires dependencies for schedule operations.
func NewScheduleService(schedules ScheduleRepository, bookings BookingRepository, trainers TrainerCatalog, recurring RecurringClassRepository, idGenerator func() string, now func() time.Time) *ScheduleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		schedules:   schedules,
		bookings:    bookings,
		trainers:    trainers,
		recurring:   recurring,
		engine:      recurrence.NewEngine(),
		months:      newMonthCache(30*time.Second, 24, now),
		idGenerator: idGenerator,
		now:         now,
	}
}

// CreateSchedule validates the request before delegating to persistence.
// Detected trainer or room double-bookings are returned as warnings, not errors.
func (s *ScheduleService) CreateSchedule(ctx context.Context, params CreateScheduleParams) (Schedule, []ConflictWarning, error) {
	if s == nil {
		return Schedule{}, nil, fmt.Errorf("ScheduleService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Schedule{}, nil, ErrUnauthorized
	}

	input := params.Input
	vErr := &ValidationError{}
	validateScheduleCore(input, vErr)
	if vErr.HasErrors() {
		return Schedule{}, nil, vErr
	}

	if err := s.ensureTrainerExists(ctx, input.TrainerID); err != nil {
		return Schedule{}, nil, err
	}

	createdAt := s.now()
	schedule := Schedule{
		ID:         s.idGenerator(),
		Type:       input.Type,
		Date:       civilDate(input.Date),
		TimeStart:  input.TimeStart,
		TimeEnd:    input.TimeEnd,
		TrainerID:  input.TrainerID,
		ClassName:  strings.TrimSpace(input.ClassName),
		ClassColor: strings.TrimSpace(input.ClassColor),
		Room:       strings.TrimSpace(input.Room),
		Capacity:   input.Capacity,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	if s.schedules == nil {
		return schedule, nil, nil
	}

	warnings, err := s.detectConflicts(ctx, schedule)
	if err != nil {
		return Schedule{}, nil, err
	}

	persisted, err := s.schedules.CreateSchedule(ctx, schedule)
	if err != nil {
		return Schedule{}, nil, mapScheduleRepoError(err)
	}

	s.months.Invalidate()
	return persisted, warnings, nil
}

// UpdateSchedule applies validation and authorization before updating persistence state.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, params UpdateScheduleParams) (Schedule, []ConflictWarning, error) {
	if s == nil {
		return Schedule{}, nil, fmt.Errorf("ScheduleService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Schedule{}, nil, ErrUnauthorized
	}
	if s.schedules == nil {
		return Schedule{}, nil, fmt.Errorf("schedule repository not configured")
	}

	existing, err := s.schedules.GetSchedule(ctx, params.ScheduleID)
	if err != nil {
		return Schedule{}, nil, mapScheduleRepoError(err)
	}

	input := params.Input
	vErr := &ValidationError{}
	validateScheduleCore(input, vErr)
	if vErr.HasErrors() {
		return Schedule{}, nil, vErr
	}

	if err := s.ensureTrainerExists(ctx, input.TrainerID); err != nil {
		return Schedule{}, nil, err
	}

	updated := existing
	updated.Type = input.Type
	updated.Date = civilDate(input.Date)
	updated.TimeStart = input.TimeStart
	updated.TimeEnd = input.TimeEnd
	updated.TrainerID = input.TrainerID
	updated.ClassName = strings.TrimSpace(input.ClassName)
	updated.ClassColor = strings.TrimSpace(input.ClassColor)
	updated.Room = strings.TrimSpace(input.Room)
	updated.Capacity = input.Capacity
	updated.UpdatedAt = s.now()

	warnings, err := s.detectConflicts(ctx, updated)
	if err != nil {
		return Schedule{}, nil, err
	}

	persisted, err := s.schedules.UpdateSchedule(ctx, updated)
	if err != nil {
		return Schedule{}, nil, mapScheduleRepoError(err)
	}

	s.months.Invalidate()
	return persisted, warnings, nil
}

// DeleteSchedule ensures authorization before delegating to persistence.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, principal Principal, scheduleID string) error {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.schedules == nil {
		return fmt.Errorf("schedule repository not configured")
	}

	if err := s.schedules.DeleteSchedule(ctx, scheduleID); err != nil {
		return mapScheduleRepoError(err)
	}

	s.months.Invalidate()
	return nil
}

// GetSchedule returns one schedule with its booking sub-lists populated.
func (s *ScheduleService) GetSchedule(ctx context.Context, principal Principal, scheduleID string) (Schedule, error) {
	if s == nil {
		return Schedule{}, fmt.Errorf("ScheduleService is nil")
	}
	if principal.MemberID == "" {
		return Schedule{}, ErrUnauthorized
	}
	if s.schedules == nil {
		return Schedule{}, fmt.Errorf("schedule repository not configured")
	}

	schedule, err := s.schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		return Schedule{}, mapScheduleRepoError(err)
	}

	if s.bookings != nil {
		bookings, err := s.bookings.ListBookingsForSchedule(ctx, scheduleID)
		if err != nil {
			return Schedule{}, err
		}
		attachBookings(&schedule, bookings)
	}

	return schedule, nil
}

// ListSchedules enumerates schedules matching the filter, time-ascending.
func (s *ScheduleService) ListSchedules(ctx context.Context, principal Principal, filter ScheduleRepositoryFilter) ([]Schedule, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if principal.MemberID == "" {
		return nil, ErrUnauthorized
	}
	if s.schedules == nil {
		return nil, fmt.Errorf("schedule repository not configured")
	}

	schedules, err := s.schedules.ListSchedules(ctx, filter)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	ordered := make([]Schedule, len(schedules))
	copy(ordered, schedules)
	sortSchedules(ordered)

	return ordered, nil
}

// Calendar assembles the schedule map for the full visible grid of one month.
// Persisted schedules and expanded recurring templates are merged; dates from
// adjacent months that fall inside the grid are included.
func (s *ScheduleService) Calendar(ctx context.Context, principal Principal, month calendar.Month) (CalendarMonth, error) {
	if s == nil {
		return CalendarMonth{}, fmt.Errorf("ScheduleService is nil")
	}
	if principal.MemberID == "" {
		return CalendarMonth{}, ErrUnauthorized
	}
	if s.schedules == nil {
		return CalendarMonth{}, fmt.Errorf("schedule repository not configured")
	}

	if cached, ok := s.months.Get(month.String()); ok {
		return cached, nil
	}

	gridStart := calendar.GridStart(calendar.FirstOfMonth(month))
	gridEnd := calendar.GridEnd(calendar.LastOfMonth(month))

	persisted, err := s.schedules.ListSchedules(ctx, ScheduleRepositoryFilter{
		DateFrom: &gridStart,
		DateTo:   &gridEnd,
	})
	if err != nil && !isNotFoundError(err) {
		return CalendarMonth{}, err
	}

	merged := make([]Schedule, len(persisted))
	copy(merged, persisted)

	expanded, err := s.expandRecurring(ctx, gridStart, gridEnd)
	if err != nil {
		return CalendarMonth{}, err
	}
	merged = append(merged, expanded...)

	sortSchedules(merged)

	byDate := make(map[string][]Schedule)
	for _, schedule := range merged {
		key := calendar.DateKey(schedule.Date)
		byDate[key] = append(byDate[key], schedule)
	}

	result := CalendarMonth{ByDate: byDate, Schedules: merged}
	s.months.Store(month.String(), result)
	return result, nil
}

// AddBooking puts a member on a schedule, assigning signup or waitlist status
// from remaining capacity.
func (s *ScheduleService) AddBooking(ctx context.Context, params AddBookingParams) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("ScheduleService is nil")
	}
	if !params.Principal.IsAdmin() && params.Principal.MemberID != params.MemberID {
		return Booking{}, ErrUnauthorized
	}
	if s.schedules == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("schedule repositories not configured")
	}

	schedule, err := s.schedules.GetSchedule(ctx, params.ScheduleID)
	if err != nil {
		return Booking{}, mapScheduleRepoError(err)
	}

	existing, err := s.bookings.ListBookingsForSchedule(ctx, params.ScheduleID)
	if err != nil {
		return Booking{}, err
	}

	signups := 0
	for _, booking := range existing {
		if booking.MemberID == params.MemberID && booking.Status != BookingCancelled {
			return Booking{}, ErrAlreadyExists
		}
		if booking.Status == BookingSignup {
			signups++
		}
	}

	status := BookingSignup
	if schedule.Capacity > 0 && signups >= schedule.Capacity {
		status = BookingWaitlist
	}

	now := s.now()
	booking := Booking{
		ID:         s.idGenerator(),
		ScheduleID: params.ScheduleID,
		MemberID:   params.MemberID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	persisted, err := s.bookings.CreateBooking(ctx, booking)
	if err != nil {
		return Booking{}, mapScheduleRepoError(err)
	}

	return persisted, nil
}

// CancelBooking marks a booking cancelled. Waitlisted members are not promoted
// automatically; administrators re-book them explicitly.
func (s *ScheduleService) CancelBooking(ctx context.Context, principal Principal, bookingID string) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("ScheduleService is nil")
	}
	if s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, mapScheduleRepoError(err)
	}

	if !principal.IsAdmin() && booking.MemberID != principal.MemberID {
		return Booking{}, ErrUnauthorized
	}

	updated, err := s.bookings.UpdateBookingStatus(ctx, bookingID, BookingCancelled, s.now())
	if err != nil {
		return Booking{}, mapScheduleRepoError(err)
	}

	return updated, nil
}

// CreateRecurringClass validates and persists a weekly class template.
func (s *ScheduleService) CreateRecurringClass(ctx context.Context, params CreateRecurringClassParams) (RecurringClass, error) {
	if s == nil {
		return RecurringClass{}, fmt.Errorf("ScheduleService is nil")
	}
	if !params.Principal.IsAdmin() {
		return RecurringClass{}, ErrUnauthorized
	}
	if s.recurring == nil {
		return RecurringClass{}, fmt.Errorf("recurring class repository not configured")
	}

	input := params.Input
	vErr := &ValidationError{}
	validateRecurringInput(input, vErr)
	if vErr.HasErrors() {
		return RecurringClass{}, vErr
	}

	if err := s.ensureTrainerExists(ctx, input.TrainerID); err != nil {
		return RecurringClass{}, err
	}

	now := s.now()
	template := RecurringClass{
		ID:         s.idGenerator(),
		Type:       input.Type,
		Weekdays:   append([]time.Weekday(nil), input.Weekdays...),
		TimeStart:  input.TimeStart,
		TimeEnd:    input.TimeEnd,
		TrainerID:  input.TrainerID,
		ClassName:  strings.TrimSpace(input.ClassName),
		ClassColor: strings.TrimSpace(input.ClassColor),
		Room:       strings.TrimSpace(input.Room),
		Capacity:   input.Capacity,
		StartsOn:   civilDate(input.StartsOn),
		EndsOn:     input.EndsOn,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	persisted, err := s.recurring.CreateRecurringClass(ctx, template)
	if err != nil {
		return RecurringClass{}, mapScheduleRepoError(err)
	}

	s.months.Invalidate()
	return persisted, nil
}

// ListRecurringClasses returns all weekly templates for administrators.
func (s *ScheduleService) ListRecurringClasses(ctx context.Context, principal Principal) ([]RecurringClass, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if s.recurring == nil {
		return nil, nil
	}

	return s.recurring.ListRecurringClasses(ctx)
}

// DeleteRecurringClass removes a weekly template for administrators.
func (s *ScheduleService) DeleteRecurringClass(ctx context.Context, principal Principal, templateID string) error {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.recurring == nil {
		return fmt.Errorf("recurring class repository not configured")
	}

	if err := s.recurring.DeleteRecurringClass(ctx, templateID); err != nil {
		return mapScheduleRepoError(err)
	}

	s.months.Invalidate()
	return nil
}

func (s *ScheduleService) expandRecurring(ctx context.Context, rangeStart, rangeEnd time.Time) ([]Schedule, error) {
	if s.recurring == nil {
		return nil, nil
	}

	templates, err := s.recurring.ListRecurringClasses(ctx)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Schedule
	for _, tpl := range templates {
		rule := recurrence.Rule{
			ID:        tpl.ID,
			Frequency: recurrence.FrequencyWeekly,
			Weekdays:  tpl.Weekdays,
			StartsOn:  tpl.StartsOn,
			EndsOn:    tpl.EndsOn,
		}
		dates, err := s.engine.GenerateDates(rule, rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
		for _, date := range dates {
			out = append(out, Schedule{
				ID:         tpl.ID + ":" + calendar.DateKey(date),
				Type:       tpl.Type,
				Date:       date,
				TimeStart:  tpl.TimeStart,
				TimeEnd:    tpl.TimeEnd,
				TrainerID:  tpl.TrainerID,
				ClassName:  tpl.ClassName,
				ClassColor: tpl.ClassColor,
				Room:       tpl.Room,
				Capacity:   tpl.Capacity,
				CreatedAt:  tpl.CreatedAt,
				UpdatedAt:  tpl.UpdatedAt,
			})
		}
	}

	return out, nil
}

func (s *ScheduleService) ensureTrainerExists(ctx context.Context, trainerID string) error {
	if trainerID == "" || s.trainers == nil {
		return nil
	}
	exists, err := s.trainers.TrainerExists(ctx, trainerID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("trainer_id", "trainer does not exist")
	return vErr
}

func (s *ScheduleService) detectConflicts(ctx context.Context, candidate Schedule) ([]ConflictWarning, error) {
	if s == nil || s.schedules == nil {
		return nil, nil
	}

	date := candidate.Date
	schedules, err := s.schedules.ListSchedules(ctx, ScheduleRepositoryFilter{
		DateFrom: &date,
		DateTo:   &date,
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	existing := make([]scheduling.Class, 0, len(schedules))
	for _, sched := range schedules {
		class, err := toSchedulingClass(sched)
		if err != nil {
			return nil, err
		}
		existing = append(existing, class)
	}

	candidateClass, err := toSchedulingClass(candidate)
	if err != nil {
		return nil, err
	}

	conflicts := scheduling.DetectConflicts(existing, candidateClass)
	return toConflictWarnings(conflicts), nil
}

func toSchedulingClass(schedule Schedule) (scheduling.Class, error) {
	start, err := scheduling.ClockMinute(schedule.TimeStart)
	if err != nil {
		return scheduling.Class{}, err
	}
	end, err := scheduling.ClockMinute(schedule.TimeEnd)
	if err != nil {
		return scheduling.Class{}, err
	}
	return scheduling.Class{
		ID:          schedule.ID,
		TrainerID:   schedule.TrainerID,
		Room:        schedule.Room,
		Date:        schedule.Date,
		StartMinute: start,
		EndMinute:   end,
	}, nil
}

func toConflictWarnings(conflicts []scheduling.Conflict) []ConflictWarning {
	if len(conflicts) == 0 {
		return nil
	}

	warnings := make([]ConflictWarning, 0, len(conflicts))
	for _, conflict := range conflicts {
		warnings = append(warnings, ConflictWarning{
			ScheduleID: conflict.WithClassID,
			Type:       string(conflict.Type),
			TrainerID:  conflict.TrainerID,
			Room:       conflict.Room,
		})
	}
	return warnings
}

func attachBookings(schedule *Schedule, bookings []Booking) {
	ordered := make([]Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	schedule.SignupBookings = make([]Booking, 0)
	schedule.WaitlistBookings = make([]Booking, 0)
	schedule.CancelledBookings = make([]Booking, 0)
	for _, booking := range ordered {
		switch booking.Status {
		case BookingSignup:
			schedule.SignupBookings = append(schedule.SignupBookings, booking)
		case BookingWaitlist:
			schedule.WaitlistBookings = append(schedule.WaitlistBookings, booking)
		case BookingCancelled:
			schedule.CancelledBookings = append(schedule.CancelledBookings, booking)
		}
	}
	schedule.SignupCount = len(schedule.SignupBookings)
}

func sortSchedules(schedules []Schedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		if !schedules[i].Date.Equal(schedules[j].Date) {
			return schedules[i].Date.Before(schedules[j].Date)
		}
		if schedules[i].TimeStart != schedules[j].TimeStart {
			return schedules[i].TimeStart < schedules[j].TimeStart
		}
		return schedules[i].ID < schedules[j].ID
	})
}

func validateScheduleCore(input ScheduleInput, vErr *ValidationError) {
	if !ValidClassType(input.Type) {
		vErr.add("type", "type must be group, semi_private, or private")
	}

	if strings.TrimSpace(input.ClassName) == "" {
		vErr.add("class_name", "class name is required")
	}

	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}

	startMinute, startErr := scheduling.ClockMinute(input.TimeStart)
	if startErr != nil {
		vErr.add("time_start", "time must be in HH:MM format")
	}
	endMinute, endErr := scheduling.ClockMinute(input.TimeEnd)
	if endErr != nil {
		vErr.add("time_end", "time must be in HH:MM format")
	}
	if startErr == nil && endErr == nil && startMinute >= endMinute {
		vErr.add("time", "start must be before end")
	}

	if input.TrainerID == "" {
		vErr.add("trainer_id", "trainer is required")
	}

	if input.Capacity < 1 {
		vErr.add("capacity", "capacity must be at least 1")
	}
}

func validateRecurringInput(input RecurringClassInput, vErr *ValidationError) {
	validateScheduleCore(ScheduleInput{
		Type:       input.Type,
		Date:       input.StartsOn,
		TimeStart:  input.TimeStart,
		TimeEnd:    input.TimeEnd,
		TrainerID:  input.TrainerID,
		ClassName:  input.ClassName,
		ClassColor: input.ClassColor,
		Room:       input.Room,
		Capacity:   input.Capacity,
	}, vErr)

	if len(input.Weekdays) == 0 {
		vErr.add("weekdays", "at least one weekday is required")
	}
	if input.EndsOn != nil && !input.EndsOn.After(input.StartsOn) {
		vErr.add("ends_on", "end date must be after start date")
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapScheduleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("trainer_id", "related records are missing")
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
