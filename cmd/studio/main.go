package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/config"
	"github.com/example/studio-scheduler/internal/email"
	httptransport "github.com/example/studio-scheduler/internal/http"
	"github.com/example/studio-scheduler/internal/payment"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A local .env is optional; the environment wins when both define a key.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	location := cfg.Location()

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := func() time.Time { return time.Now().In(location) }

	memberRepo := newMemberRepositoryAdapter(storage.Members)
	trainerRepo := newTrainerRepositoryAdapter(storage.Trainers)
	scheduleRepo := newScheduleRepositoryAdapter(storage.Schedules)
	bookingRepo := newBookingRepositoryAdapter(storage.Bookings)
	packageRepo := newPackageRepositoryAdapter(storage.Packages)
	orderRepo := newOrderRepositoryAdapter(storage.Orders)
	sessionRepo := newSessionRepositoryAdapter(storage.Sessions)
	recurringRepo := newRecurringClassAdapter(storage.RecurringClasses)
	credentialStore := newCredentialStoreAdapter(storage.Members)

	gateway := payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction)
	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	}
	mailer := email.NewReceiptMailer(sender)

	memberService := application.NewMemberService(memberRepo, storage.Orders, idGenerator, now, logger)
	trainerService := application.NewTrainerService(trainerRepo, idGenerator, now)
	scheduleService := application.NewScheduleService(scheduleRepo, bookingRepo, trainerRepo, recurringRepo, idGenerator, now)
	packageService := application.NewPackageService(packageRepo, idGenerator, now)
	orderService := application.NewOrderService(orderRepo, packageRepo, memberRepo, gateway, mailer, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(credentialStore, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Members:   httptransport.NewMemberHandler(memberService, logger),
		Trainers:  httptransport.NewTrainerHandler(trainerService, logger),
		Schedules: httptransport.NewScheduleHandler(scheduleService, logger),
		Packages:  httptransport.NewPackageHandler(packageService, logger),
		Orders:    httptransport.NewOrderHandler(orderService, cfg.MidtransServerKey, logger),
		Layout:    httptransport.NewLayoutHandler(memberService, cfg.RedirectGrace, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r) {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	go pruneSessions(ctx, storage.Sessions, now, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("studio API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// isPublicPath reports whether the request may be served without a session.
// Login and the payment gateway callback are the only unauthenticated routes.
func isPublicPath(r *http.Request) bool {
	switch r.URL.Path {
	case "/api/sessions":
		return r.Method == http.MethodPost
	case "/api/payments/notification":
		return r.Method == http.MethodPost
	}
	return false
}

// pruneSessions drops expired session rows hourly until ctx is cancelled.
func pruneSessions(ctx context.Context, sessions persistence.SessionRepository, now func() time.Time, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpiredSessions(ctx, now()); err != nil {
				logger.Error("failed to prune expired sessions", "error", err)
			}
		}
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

type memberRepositoryAdapter struct {
	repo persistence.MemberRepository
}

func newMemberRepositoryAdapter(repo persistence.MemberRepository) *memberRepositoryAdapter {
	return &memberRepositoryAdapter{repo: repo}
}

func (a *memberRepositoryAdapter) CreateMember(ctx context.Context, member application.Member, passwordHash string) (application.Member, error) {
	record := toPersistenceMember(member)
	record.PasswordHash = passwordHash
	if err := a.repo.CreateMember(ctx, record); err != nil {
		return application.Member{}, err
	}
	return a.GetMember(ctx, member.ID)
}

func (a *memberRepositoryAdapter) GetMember(ctx context.Context, id string) (application.Member, error) {
	record, err := a.repo.GetMember(ctx, id)
	if err != nil {
		return application.Member{}, err
	}
	return toApplicationMember(record), nil
}

func (a *memberRepositoryAdapter) UpdateMember(ctx context.Context, member application.Member) (application.Member, error) {
	if err := a.repo.UpdateMember(ctx, toPersistenceMember(member)); err != nil {
		return application.Member{}, err
	}
	return a.GetMember(ctx, member.ID)
}

func (a *memberRepositoryAdapter) DeleteMember(ctx context.Context, id string) error {
	return a.repo.DeleteMember(ctx, id)
}

func (a *memberRepositoryAdapter) ListMembers(ctx context.Context) ([]application.Member, error) {
	records, err := a.repo.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]application.Member, 0, len(records))
	for _, record := range records {
		members = append(members, toApplicationMember(record))
	}
	return members, nil
}

func (a *memberRepositoryAdapter) SetPurchaseFlag(ctx context.Context, id string, purchased bool) error {
	return a.repo.SetPurchaseFlag(ctx, id, purchased)
}

func toPersistenceMember(member application.Member) persistence.Member {
	return persistence.Member{
		ID:                  member.ID,
		Email:               member.Email,
		DisplayName:         member.DisplayName,
		Phone:               member.Phone,
		Role:                string(member.Role),
		HasPurchasedPackage: member.HasPurchasedPackage,
		CreatedAt:           member.CreatedAt,
		UpdatedAt:           member.UpdatedAt,
	}
}

func toApplicationMember(record persistence.Member) application.Member {
	return application.Member{
		ID:                  record.ID,
		Email:               record.Email,
		DisplayName:         record.DisplayName,
		Phone:               record.Phone,
		Role:                application.Role(record.Role),
		HasPurchasedPackage: record.HasPurchasedPackage,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
}

type credentialStoreAdapter struct {
	repo persistence.MemberRepository
}

func newCredentialStoreAdapter(repo persistence.MemberRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetMemberCredentialsByEmail(ctx context.Context, emailAddr string) (application.MemberCredentials, error) {
	record, err := a.repo.GetMemberByEmail(ctx, emailAddr)
	if err != nil {
		return application.MemberCredentials{}, err
	}
	return application.MemberCredentials{
		Member:       toApplicationMember(record),
		PasswordHash: record.PasswordHash,
		Disabled:     record.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetMember(ctx context.Context, id string) (application.Member, error) {
	record, err := a.repo.GetMember(ctx, id)
	if err != nil {
		return application.Member{}, err
	}
	return toApplicationMember(record), nil
}

type trainerRepositoryAdapter struct {
	repo persistence.TrainerRepository
}

func newTrainerRepositoryAdapter(repo persistence.TrainerRepository) *trainerRepositoryAdapter {
	return &trainerRepositoryAdapter{repo: repo}
}

func (a *trainerRepositoryAdapter) CreateTrainer(ctx context.Context, trainer application.Trainer) (application.Trainer, error) {
	if err := a.repo.CreateTrainer(ctx, persistence.Trainer(trainer)); err != nil {
		return application.Trainer{}, err
	}
	return trainer, nil
}

func (a *trainerRepositoryAdapter) GetTrainer(ctx context.Context, id string) (application.Trainer, error) {
	record, err := a.repo.GetTrainer(ctx, id)
	if err != nil {
		return application.Trainer{}, err
	}
	return application.Trainer(record), nil
}

func (a *trainerRepositoryAdapter) UpdateTrainer(ctx context.Context, trainer application.Trainer) (application.Trainer, error) {
	if err := a.repo.UpdateTrainer(ctx, persistence.Trainer(trainer)); err != nil {
		return application.Trainer{}, err
	}
	return trainer, nil
}

func (a *trainerRepositoryAdapter) DeleteTrainer(ctx context.Context, id string) error {
	return a.repo.DeleteTrainer(ctx, id)
}

func (a *trainerRepositoryAdapter) ListTrainers(ctx context.Context) ([]application.Trainer, error) {
	records, err := a.repo.ListTrainers(ctx)
	if err != nil {
		return nil, err
	}
	trainers := make([]application.Trainer, 0, len(records))
	for _, record := range records {
		trainers = append(trainers, application.Trainer(record))
	}
	return trainers, nil
}

// TrainerExists satisfies application.TrainerCatalog on top of the same
// repository the trainer service uses.
func (a *trainerRepositoryAdapter) TrainerExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetTrainer(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type scheduleRepositoryAdapter struct {
	repo persistence.ScheduleRepository
}

func newScheduleRepositoryAdapter(repo persistence.ScheduleRepository) *scheduleRepositoryAdapter {
	return &scheduleRepositoryAdapter{repo: repo}
}

func (a *scheduleRepositoryAdapter) CreateSchedule(ctx context.Context, schedule application.Schedule) (application.Schedule, error) {
	if err := a.repo.CreateSchedule(ctx, toPersistenceSchedule(schedule)); err != nil {
		return application.Schedule{}, err
	}
	return a.GetSchedule(ctx, schedule.ID)
}

func (a *scheduleRepositoryAdapter) GetSchedule(ctx context.Context, id string) (application.Schedule, error) {
	record, err := a.repo.GetSchedule(ctx, id)
	if err != nil {
		return application.Schedule{}, err
	}
	return toApplicationSchedule(record), nil
}

func (a *scheduleRepositoryAdapter) UpdateSchedule(ctx context.Context, schedule application.Schedule) (application.Schedule, error) {
	if err := a.repo.UpdateSchedule(ctx, toPersistenceSchedule(schedule)); err != nil {
		return application.Schedule{}, err
	}
	return a.GetSchedule(ctx, schedule.ID)
}

func (a *scheduleRepositoryAdapter) DeleteSchedule(ctx context.Context, id string) error {
	return a.repo.DeleteSchedule(ctx, id)
}

func (a *scheduleRepositoryAdapter) ListSchedules(ctx context.Context, filter application.ScheduleRepositoryFilter) ([]application.Schedule, error) {
	var persistenceFilter persistence.ScheduleFilter
	if filter.Type != nil {
		classType := string(*filter.Type)
		persistenceFilter.ClassType = &classType
	}
	persistenceFilter.TrainerID = filter.TrainerID
	persistenceFilter.DateFrom = filter.DateFrom
	persistenceFilter.DateTo = filter.DateTo

	records, err := a.repo.ListSchedules(ctx, persistenceFilter)
	if err != nil {
		return nil, err
	}
	schedules := make([]application.Schedule, 0, len(records))
	for _, record := range records {
		schedules = append(schedules, toApplicationSchedule(record))
	}
	return schedules, nil
}

func toPersistenceSchedule(schedule application.Schedule) persistence.Schedule {
	return persistence.Schedule{
		ID:         schedule.ID,
		ClassType:  string(schedule.Type),
		Date:       schedule.Date,
		TimeStart:  schedule.TimeStart,
		TimeEnd:    schedule.TimeEnd,
		TrainerID:  schedule.TrainerID,
		ClassName:  schedule.ClassName,
		ClassColor: schedule.ClassColor,
		Room:       schedule.Room,
		Capacity:   schedule.Capacity,
		CreatedAt:  schedule.CreatedAt,
		UpdatedAt:  schedule.UpdatedAt,
	}
}

func toApplicationSchedule(record persistence.Schedule) application.Schedule {
	return application.Schedule{
		ID:          record.ID,
		Type:        application.ClassType(record.ClassType),
		Date:        record.Date,
		TimeStart:   record.TimeStart,
		TimeEnd:     record.TimeEnd,
		TrainerID:   record.TrainerID,
		TrainerName: record.TrainerName,
		ClassName:   record.ClassName,
		ClassColor:  record.ClassColor,
		Room:        record.Room,
		Capacity:    record.Capacity,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	return a.GetBooking(ctx, booking.ID)
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	record, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(record), nil
}

func (a *bookingRepositoryAdapter) UpdateBookingStatus(ctx context.Context, id string, status application.BookingStatus, updatedAt time.Time) (application.Booking, error) {
	record, err := a.repo.UpdateBookingStatus(ctx, id, string(status), updatedAt)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(record), nil
}

func (a *bookingRepositoryAdapter) ListBookingsForSchedule(ctx context.Context, scheduleID string) ([]application.Booking, error) {
	records, err := a.repo.ListBookingsForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	bookings := make([]application.Booking, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, toApplicationBooking(record))
	}
	return bookings, nil
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:         booking.ID,
		ScheduleID: booking.ScheduleID,
		MemberID:   booking.MemberID,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
}

func toApplicationBooking(record persistence.Booking) application.Booking {
	return application.Booking{
		ID:         record.ID,
		ScheduleID: record.ScheduleID,
		MemberID:   record.MemberID,
		MemberName: record.MemberName,
		Status:     application.BookingStatus(record.Status),
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

type packageRepositoryAdapter struct {
	repo persistence.PackageRepository
}

func newPackageRepositoryAdapter(repo persistence.PackageRepository) *packageRepositoryAdapter {
	return &packageRepositoryAdapter{repo: repo}
}

func (a *packageRepositoryAdapter) CreatePackage(ctx context.Context, pkg application.Package) (application.Package, error) {
	if err := a.repo.CreatePackage(ctx, toPersistencePackage(pkg)); err != nil {
		return application.Package{}, err
	}
	return pkg, nil
}

func (a *packageRepositoryAdapter) GetPackage(ctx context.Context, id string) (application.Package, error) {
	record, err := a.repo.GetPackage(ctx, id)
	if err != nil {
		return application.Package{}, err
	}
	return toApplicationPackage(record), nil
}

func (a *packageRepositoryAdapter) UpdatePackage(ctx context.Context, pkg application.Package) (application.Package, error) {
	if err := a.repo.UpdatePackage(ctx, toPersistencePackage(pkg)); err != nil {
		return application.Package{}, err
	}
	return pkg, nil
}

func (a *packageRepositoryAdapter) DeletePackage(ctx context.Context, id string) error {
	return a.repo.DeletePackage(ctx, id)
}

func (a *packageRepositoryAdapter) ListPackages(ctx context.Context) ([]application.Package, error) {
	records, err := a.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	packages := make([]application.Package, 0, len(records))
	for _, record := range records {
		packages = append(packages, toApplicationPackage(record))
	}
	return packages, nil
}

func toPersistencePackage(pkg application.Package) persistence.Package {
	return persistence.Package{
		ID:              pkg.ID,
		Name:            pkg.Name,
		Category:        string(pkg.Category),
		Description:     pkg.Description,
		PriceIDR:        pkg.PriceIDR,
		Credits:         pkg.Credits,
		DurationDays:    pkg.DurationDays,
		DiscountPercent: pkg.DiscountPercent,
		ValidFrom:       pkg.ValidFrom,
		ValidUntil:      pkg.ValidUntil,
		BasePackageID:   pkg.BasePackageID,
		BonusCredits:    pkg.BonusCredits,
		CreatedAt:       pkg.CreatedAt,
		UpdatedAt:       pkg.UpdatedAt,
	}
}

func toApplicationPackage(record persistence.Package) application.Package {
	return application.Package{
		ID:              record.ID,
		Name:            record.Name,
		Category:        application.PackageCategory(record.Category),
		Description:     record.Description,
		PriceIDR:        record.PriceIDR,
		Credits:         record.Credits,
		DurationDays:    record.DurationDays,
		DiscountPercent: record.DiscountPercent,
		ValidFrom:       record.ValidFrom,
		ValidUntil:      record.ValidUntil,
		BasePackageID:   record.BasePackageID,
		BonusCredits:    record.BonusCredits,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

type orderRepositoryAdapter struct {
	repo persistence.OrderRepository
}

func newOrderRepositoryAdapter(repo persistence.OrderRepository) *orderRepositoryAdapter {
	return &orderRepositoryAdapter{repo: repo}
}

func (a *orderRepositoryAdapter) CreateOrder(ctx context.Context, order application.Order) (application.Order, error) {
	if err := a.repo.CreateOrder(ctx, toPersistenceOrder(order)); err != nil {
		return application.Order{}, err
	}
	return order, nil
}

func (a *orderRepositoryAdapter) GetOrder(ctx context.Context, id string) (application.Order, error) {
	record, err := a.repo.GetOrder(ctx, id)
	if err != nil {
		return application.Order{}, err
	}
	return toApplicationOrder(record), nil
}

func (a *orderRepositoryAdapter) UpdateOrder(ctx context.Context, order application.Order) (application.Order, error) {
	if err := a.repo.UpdateOrder(ctx, toPersistenceOrder(order)); err != nil {
		return application.Order{}, err
	}
	return a.GetOrder(ctx, order.ID)
}

func (a *orderRepositoryAdapter) ListOrdersForMember(ctx context.Context, memberID string) ([]application.Order, error) {
	records, err := a.repo.ListOrdersForMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return toApplicationOrders(records), nil
}

func (a *orderRepositoryAdapter) ListOrders(ctx context.Context) ([]application.Order, error) {
	records, err := a.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationOrders(records), nil
}

func toPersistenceOrder(order application.Order) persistence.Order {
	return persistence.Order{
		ID:              order.ID,
		MemberID:        order.MemberID,
		PackageID:       order.PackageID,
		PackageName:     order.PackageName,
		AmountIDR:       order.AmountIDR,
		Status:          string(order.Status),
		SnapToken:       order.SnapToken,
		SnapRedirectURL: order.SnapRedirectURL,
		PaidAt:          order.PaidAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toApplicationOrder(record persistence.Order) application.Order {
	return application.Order{
		ID:              record.ID,
		MemberID:        record.MemberID,
		PackageID:       record.PackageID,
		PackageName:     record.PackageName,
		AmountIDR:       record.AmountIDR,
		Status:          application.OrderStatus(record.Status),
		SnapToken:       record.SnapToken,
		SnapRedirectURL: record.SnapRedirectURL,
		PaidAt:          record.PaidAt,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func toApplicationOrders(records []persistence.Order) []application.Order {
	orders := make([]application.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, toApplicationOrder(record))
	}
	return orders
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	record, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	record, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	record, err := a.repo.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	record, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(record), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		MemberID:  session.MemberID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: session.RevokedAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func toApplicationSession(record persistence.Session) application.Session {
	return application.Session{
		ID:        record.ID,
		MemberID:  record.MemberID,
		Token:     record.Token,
		ExpiresAt: record.ExpiresAt,
		RevokedAt: record.RevokedAt,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

type recurringClassAdapter struct {
	repo persistence.RecurringClassRepository
}

func newRecurringClassAdapter(repo persistence.RecurringClassRepository) *recurringClassAdapter {
	return &recurringClassAdapter{repo: repo}
}

func (a *recurringClassAdapter) CreateRecurringClass(ctx context.Context, template application.RecurringClass) (application.RecurringClass, error) {
	if err := a.repo.CreateRecurringClass(ctx, toPersistenceRecurringClass(template)); err != nil {
		return application.RecurringClass{}, err
	}
	return template, nil
}

func (a *recurringClassAdapter) ListRecurringClasses(ctx context.Context) ([]application.RecurringClass, error) {
	records, err := a.repo.ListRecurringClasses(ctx)
	if err != nil {
		return nil, err
	}
	templates := make([]application.RecurringClass, 0, len(records))
	for _, record := range records {
		templates = append(templates, toApplicationRecurringClass(record))
	}
	return templates, nil
}

func (a *recurringClassAdapter) DeleteRecurringClass(ctx context.Context, id string) error {
	return a.repo.DeleteRecurringClass(ctx, id)
}

func toPersistenceRecurringClass(template application.RecurringClass) persistence.RecurringClass {
	return persistence.RecurringClass{
		ID:         template.ID,
		ClassType:  string(template.Type),
		Weekdays:   template.Weekdays,
		TimeStart:  template.TimeStart,
		TimeEnd:    template.TimeEnd,
		TrainerID:  template.TrainerID,
		ClassName:  template.ClassName,
		ClassColor: template.ClassColor,
		Room:       template.Room,
		Capacity:   template.Capacity,
		StartsOn:   template.StartsOn,
		EndsOn:     template.EndsOn,
		CreatedAt:  template.CreatedAt,
		UpdatedAt:  template.UpdatedAt,
	}
}

func toApplicationRecurringClass(record persistence.RecurringClass) application.RecurringClass {
	return application.RecurringClass{
		ID:         record.ID,
		Type:       application.ClassType(record.ClassType),
		Weekdays:   record.Weekdays,
		TimeStart:  record.TimeStart,
		TimeEnd:    record.TimeEnd,
		TrainerID:  record.TrainerID,
		ClassName:  record.ClassName,
		ClassColor: record.ClassColor,
		Room:       record.Room,
		Capacity:   record.Capacity,
		StartsOn:   record.StartsOn,
		EndsOn:     record.EndsOn,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
