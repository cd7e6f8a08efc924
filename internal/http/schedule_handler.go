package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/calendar"
)

type scheduleService interface {
	CreateSchedule(ctx context.Context, params application.CreateScheduleParams) (application.Schedule, []application.ConflictWarning, error)
	UpdateSchedule(ctx context.Context, params application.UpdateScheduleParams) (application.Schedule, []application.ConflictWarning, error)
	DeleteSchedule(ctx context.Context, principal application.Principal, scheduleID string) error
	GetSchedule(ctx context.Context, principal application.Principal, scheduleID string) (application.Schedule, error)
	Calendar(ctx context.Context, principal application.Principal, month calendar.Month) (application.CalendarMonth, error)
	AddBooking(ctx context.Context, params application.AddBookingParams) (application.Booking, error)
	CancelBooking(ctx context.Context, principal application.Principal, bookingID string) (application.Booking, error)
	CreateRecurringClass(ctx context.Context, params application.CreateRecurringClassParams) (application.RecurringClass, error)
	ListRecurringClasses(ctx context.Context, principal application.Principal) ([]application.RecurringClass, error)
	DeleteRecurringClass(ctx context.Context, principal application.Principal, templateID string) error
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

// Calendar serves the assembled month: a date-keyed map plus the flat listing.
func (h *ScheduleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	monthNum, monthErr := strconv.Atoi(query.Get("month"))
	year, yearErr := strconv.Atoi(query.Get("year"))
	if monthErr != nil || yearErr != nil || monthNum < 1 || monthNum > 12 || year < 1 {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: "month and year query parameters are required",
		})
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	month := calendar.Month{Year: year, Month: time.Month(monthNum)}
	logger := h.log(r.Context(), "Calendar", "month", month.String())

	result, err := h.service.Calendar(r.Context(), principal, month)
	if err != nil {
		logger.ErrorContext(r.Context(), "calendar assembly failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	byDate := make(map[string][]scheduleDTO, len(result.ByDate))
	for key, schedules := range result.ByDate {
		byDate[key] = toScheduleDTOs(schedules)
	}

	grid := calendar.BuildGrid(month, byDate)
	cells := make([]calendarCellDTO, 0, len(grid.Cells))
	for _, cell := range grid.Cells {
		cells = append(cells, calendarCellDTO{
			Date:           calendar.DateKey(cell.Date),
			DayOfMonth:     cell.DayOfMonth,
			IsCurrentMonth: cell.IsCurrentMonth,
			HasSchedule:    cell.HasSchedule,
			Interactive:    cell.Interactive(),
		})
	}

	logger.With("result_count", len(result.Schedules), "weeks", grid.Weeks()).InfoContext(r.Context(), "calendar served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarResponse{
		SchedulesByDate: byDate,
		Schedules:       toScheduleDTOs(result.Schedules),
		Grid:            cells,
	})
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classType, ok := ClassTypeFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidClassType)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if fields := validateRequest(req); fields != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "the submitted input is invalid",
			Errors:  fields,
		})
		return
	}

	input, err := req.toInput(classType)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "principal_id", principal.MemberID, "class_type", string(classType))

	schedule, warnings, err := h.service.CreateSchedule(r.Context(), application.CreateScheduleParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("schedule_id", schedule.ID, "warning_count", len(warnings)).InfoContext(r.Context(), "schedule created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, scheduleResponse{
		Schedule: toScheduleDetailDTO(schedule),
		Warnings: toWarningDTOs(warnings),
	})
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classType, scheduleID, ok := scheduleTarget(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	schedule, err := h.service.GetSchedule(r.Context(), principal, scheduleID)
	if err != nil {
		h.log(r.Context(), "Get", "schedule_id", scheduleID).ErrorContext(r.Context(), "schedule fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if schedule.Type != classType {
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{Schedule: toScheduleDetailDTO(schedule)})
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	classType, scheduleID, ok := scheduleTarget(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "schedule_id", scheduleID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput(classType)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Update", "principal_id", principal.MemberID, "schedule_id", scheduleID)

	schedule, warnings, err := h.service.UpdateSchedule(r.Context(), application.UpdateScheduleParams{
		Principal:  principal,
		ScheduleID: scheduleID,
		Input:      input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("warning_count", len(warnings)).InfoContext(r.Context(), "schedule updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{
		Schedule: toScheduleDetailDTO(schedule),
		Warnings: toWarningDTOs(warnings),
	})
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, scheduleID, ok := scheduleTarget(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.MemberID, "schedule_id", scheduleID)

	if err := h.service.DeleteSchedule(r.Context(), principal, scheduleID); err != nil {
		logger.ErrorContext(r.Context(), "schedule delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "schedule deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// AddBooking puts a member on the schedule's signup list, or the waitlist
// when the class is at capacity.
func (h *ScheduleHandler) AddBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, scheduleID, ok := scheduleTarget(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
	}
	memberID := strings.TrimSpace(req.MemberID)
	if memberID == "" {
		memberID = principal.MemberID
	}

	logger := h.log(r.Context(), "AddBooking", "principal_id", principal.MemberID, "schedule_id", scheduleID, "member_id", memberID)

	booking, err := h.service.AddBooking(r.Context(), application.AddBookingParams{
		Principal:  principal,
		ScheduleID: scheduleID,
		MemberID:   memberID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID, "status", string(booking.Status)).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking)})
}

// CancelBooking moves a booking to the cancelled list.
func (h *ScheduleHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "CancelBooking", "principal_id", principal.MemberID, "booking_id", bookingID)

	booking, err := h.service.CancelBooking(r.Context(), principal, bookingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(booking)})
}

func (h *ScheduleHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req recurringClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateRecurring", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode recurring class request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "CreateRecurring", "principal_id", principal.MemberID)

	template, err := h.service.CreateRecurringClass(r.Context(), application.CreateRecurringClassParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "recurring class creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("template_id", template.ID).InfoContext(r.Context(), "recurring class created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, recurringClassResponse{RecurringClass: toRecurringClassDTO(template)})
}

func (h *ScheduleHandler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	templates, err := h.service.ListRecurringClasses(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListRecurring").ErrorContext(r.Context(), "recurring class list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRecurringClassesResponse{RecurringClasses: toRecurringClassDTOs(templates)})
}

func (h *ScheduleHandler) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	templateID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(templateID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteRecurring", "principal_id", principal.MemberID, "template_id", templateID)

	if err := h.service.DeleteRecurringClass(r.Context(), principal, templateID); err != nil {
		logger.ErrorContext(r.Context(), "recurring class delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "recurring class deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func scheduleTarget(ctx context.Context) (application.ClassType, string, bool) {
	classType, okType := ClassTypeFromContext(ctx)
	id, okID := ResourceIDFromContext(ctx)
	if !okType || !okID || strings.TrimSpace(id) == "" {
		return "", "", false
	}
	return classType, id, true
}

// classTypeFromSegment maps a URL path segment onto a class type. The wire
// segment uses hyphens while the stored value uses an underscore.
func classTypeFromSegment(segment string) (application.ClassType, bool) {
	switch segment {
	case "group":
		return application.ClassGroup, true
	case "semi-private":
		return application.ClassSemiPrivate, true
	case "private":
		return application.ClassPrivate, true
	}
	return "", false
}

type scheduleRequest struct {
	Date       string `json:"date" validate:"required"`
	TimeStart  string `json:"time_start" validate:"required"`
	TimeEnd    string `json:"time_end" validate:"required"`
	TrainerID  string `json:"trainer_id" validate:"required"`
	ClassName  string `json:"class_name" validate:"required"`
	ClassColor string `json:"class_color"`
	Room       string `json:"room"`
	Capacity   int    `json:"capacity" validate:"gte=1"`
}

func (r scheduleRequest) toInput(classType application.ClassType) (application.ScheduleInput, error) {
	date, err := calendar.ParseDateKey(strings.TrimSpace(r.Date))
	if err != nil {
		return application.ScheduleInput{}, errInvalidDate
	}
	return application.ScheduleInput{
		Type:       classType,
		Date:       date,
		TimeStart:  strings.TrimSpace(r.TimeStart),
		TimeEnd:    strings.TrimSpace(r.TimeEnd),
		TrainerID:  strings.TrimSpace(r.TrainerID),
		ClassName:  strings.TrimSpace(r.ClassName),
		ClassColor: strings.TrimSpace(r.ClassColor),
		Room:       strings.TrimSpace(r.Room),
		Capacity:   r.Capacity,
	}, nil
}

type bookingRequest struct {
	MemberID string `json:"member_id"`
}

type recurringClassRequest struct {
	Type       string   `json:"type" validate:"required,oneof=group semi_private private"`
	Weekdays   []int    `json:"weekdays" validate:"required,min=1,dive,gte=0,lte=6"`
	TimeStart  string   `json:"time_start" validate:"required"`
	TimeEnd    string   `json:"time_end" validate:"required"`
	TrainerID  string   `json:"trainer_id" validate:"required"`
	ClassName  string   `json:"class_name" validate:"required"`
	ClassColor string   `json:"class_color"`
	Room       string   `json:"room"`
	Capacity   int      `json:"capacity" validate:"gte=1"`
	StartsOn   string   `json:"starts_on" validate:"required"`
	EndsOn     *string  `json:"ends_on"`
}

func (r recurringClassRequest) toInput() (application.RecurringClassInput, error) {
	startsOn, err := calendar.ParseDateKey(strings.TrimSpace(r.StartsOn))
	if err != nil {
		return application.RecurringClassInput{}, errInvalidDate
	}

	var endsOn *time.Time
	if r.EndsOn != nil && strings.TrimSpace(*r.EndsOn) != "" {
		parsed, err := calendar.ParseDateKey(strings.TrimSpace(*r.EndsOn))
		if err != nil {
			return application.RecurringClassInput{}, errInvalidDate
		}
		endsOn = &parsed
	}

	weekdays := make([]time.Weekday, 0, len(r.Weekdays))
	for _, day := range r.Weekdays {
		weekdays = append(weekdays, time.Weekday(day))
	}

	return application.RecurringClassInput{
		Type:       application.ClassType(r.Type),
		Weekdays:   weekdays,
		TimeStart:  strings.TrimSpace(r.TimeStart),
		TimeEnd:    strings.TrimSpace(r.TimeEnd),
		TrainerID:  strings.TrimSpace(r.TrainerID),
		ClassName:  strings.TrimSpace(r.ClassName),
		ClassColor: strings.TrimSpace(r.ClassColor),
		Room:       strings.TrimSpace(r.Room),
		Capacity:   r.Capacity,
		StartsOn:   startsOn,
		EndsOn:     endsOn,
	}, nil
}

type calendarResponse struct {
	SchedulesByDate map[string][]scheduleDTO `json:"schedules_by_date"`
	Schedules       []scheduleDTO            `json:"schedules"`
	// Grid is the full-week cell matrix for the month, in render order.
	Grid []calendarCellDTO `json:"grid"`
}

type calendarCellDTO struct {
	Date           string `json:"date"`
	DayOfMonth     int    `json:"day_of_month"`
	IsCurrentMonth bool   `json:"is_current_month"`
	HasSchedule    bool   `json:"has_schedule"`
	Interactive    bool   `json:"interactive"`
}

type scheduleResponse struct {
	Schedule scheduleDetailDTO `json:"schedule"`
	Warnings []warningDTO      `json:"warnings,omitempty"`
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type recurringClassResponse struct {
	RecurringClass recurringClassDTO `json:"recurring_class"`
}

type listRecurringClassesResponse struct {
	RecurringClasses []recurringClassDTO `json:"recurring_classes"`
}

type scheduleDTO struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	TimeStart   string `json:"time_start"`
	TimeEnd     string `json:"time_end"`
	TrainerID   string `json:"trainer_id"`
	TrainerName string `json:"trainer_name,omitempty"`
	ClassName   string `json:"class_name"`
	ClassColor  string `json:"class_color,omitempty"`
	Room        string `json:"room,omitempty"`
	Capacity    int    `json:"capacity"`
	SignupCount int    `json:"signup_count"`
}

type scheduleDetailDTO struct {
	scheduleDTO
	SignupBookings    []bookingDTO `json:"signup_bookings"`
	WaitlistBookings  []bookingDTO `json:"waitlist_bookings"`
	CancelledBookings []bookingDTO `json:"cancelled_bookings"`
}

type bookingDTO struct {
	ID         string `json:"id"`
	ScheduleID string `json:"schedule_id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type warningDTO struct {
	ScheduleID string `json:"schedule_id"`
	Type       string `json:"type"`
	TrainerID  string `json:"trainer_id,omitempty"`
	Room       string `json:"room,omitempty"`
}

type recurringClassDTO struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Weekdays   []int   `json:"weekdays"`
	TimeStart  string  `json:"time_start"`
	TimeEnd    string  `json:"time_end"`
	TrainerID  string  `json:"trainer_id"`
	ClassName  string  `json:"class_name"`
	ClassColor string  `json:"class_color,omitempty"`
	Room       string  `json:"room,omitempty"`
	Capacity   int     `json:"capacity"`
	StartsOn   string  `json:"starts_on"`
	EndsOn     *string `json:"ends_on,omitempty"`
}

func toScheduleDTO(schedule application.Schedule) scheduleDTO {
	return scheduleDTO{
		ID:          schedule.ID,
		Type:        string(schedule.Type),
		Date:        calendar.DateKey(schedule.Date),
		TimeStart:   schedule.TimeStart,
		TimeEnd:     schedule.TimeEnd,
		TrainerID:   schedule.TrainerID,
		TrainerName: schedule.TrainerName,
		ClassName:   schedule.ClassName,
		ClassColor:  schedule.ClassColor,
		Room:        schedule.Room,
		Capacity:    schedule.Capacity,
		SignupCount: schedule.SignupCount,
	}
}

func toScheduleDTOs(schedules []application.Schedule) []scheduleDTO {
	out := make([]scheduleDTO, 0, len(schedules))
	for _, schedule := range schedules {
		out = append(out, toScheduleDTO(schedule))
	}
	return out
}

func toScheduleDetailDTO(schedule application.Schedule) scheduleDetailDTO {
	return scheduleDetailDTO{
		scheduleDTO:       toScheduleDTO(schedule),
		SignupBookings:    toBookingDTOs(schedule.SignupBookings),
		WaitlistBookings:  toBookingDTOs(schedule.WaitlistBookings),
		CancelledBookings: toBookingDTOs(schedule.CancelledBookings),
	}
}

func toBookingDTO(booking application.Booking) bookingDTO {
	return bookingDTO{
		ID:         booking.ID,
		ScheduleID: booking.ScheduleID,
		MemberID:   booking.MemberID,
		MemberName: booking.MemberName,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// toBookingDTOs always returns a non-nil slice so the detail sub-lists
// serialise as [] rather than null.
func toBookingDTOs(bookings []application.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toBookingDTO(booking))
	}
	return out
}

func toWarningDTOs(warnings []application.ConflictWarning) []warningDTO {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]warningDTO, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, warningDTO{
			ScheduleID: warning.ScheduleID,
			Type:       warning.Type,
			TrainerID:  warning.TrainerID,
			Room:       warning.Room,
		})
	}
	return out
}

func toRecurringClassDTO(template application.RecurringClass) recurringClassDTO {
	weekdays := make([]int, 0, len(template.Weekdays))
	for _, day := range template.Weekdays {
		weekdays = append(weekdays, int(day))
	}

	var endsOn *string
	if template.EndsOn != nil {
		key := calendar.DateKey(*template.EndsOn)
		endsOn = &key
	}

	return recurringClassDTO{
		ID:         template.ID,
		Type:       string(template.Type),
		Weekdays:   weekdays,
		TimeStart:  template.TimeStart,
		TimeEnd:    template.TimeEnd,
		TrainerID:  template.TrainerID,
		ClassName:  template.ClassName,
		ClassColor: template.ClassColor,
		Room:       template.Room,
		Capacity:   template.Capacity,
		StartsOn:   calendar.DateKey(template.StartsOn),
		EndsOn:     endsOn,
	}
}

func toRecurringClassDTOs(templates []application.RecurringClass) []recurringClassDTO {
	if len(templates) == 0 {
		return nil
	}
	out := make([]recurringClassDTO, 0, len(templates))
	for _, template := range templates {
		out = append(out, toRecurringClassDTO(template))
	}
	return out
}
