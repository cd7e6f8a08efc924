package persistence

import "context"
import "time"

// MemberRepository exposes CRUD operations for members.
type MemberRepository interface {
	CreateMember(ctx context.Context, member Member) error
	UpdateMember(ctx context.Context, member Member) error
	GetMember(ctx context.Context, id string) (Member, error)
	GetMemberByEmail(ctx context.Context, email string) (Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
	DeleteMember(ctx context.Context, id string) error
	SetPurchaseFlag(ctx context.Context, id string, purchased bool) error
}

// TrainerRepository exposes CRUD operations for trainers.
type TrainerRepository interface {
	CreateTrainer(ctx context.Context, trainer Trainer) error
	UpdateTrainer(ctx context.Context, trainer Trainer) error
	GetTrainer(ctx context.Context, id string) (Trainer, error)
	ListTrainers(ctx context.Context) ([]Trainer, error)
	DeleteTrainer(ctx context.Context, id string) error
}

// ScheduleRepository stores bookable class instances.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule Schedule) error
	UpdateSchedule(ctx context.Context, schedule Schedule) error
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// BookingRepository stores the booking rows attached to schedules.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status string, updatedAt time.Time) (Booking, error)
	ListBookingsForSchedule(ctx context.Context, scheduleID string) ([]Booking, error)
}

// PackageRepository exposes CRUD operations for sellable packages.
type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg Package) error
	UpdatePackage(ctx context.Context, pkg Package) error
	GetPackage(ctx context.Context, id string) (Package, error)
	ListPackages(ctx context.Context) ([]Package, error)
	DeletePackage(ctx context.Context, id string) error
}

// OrderRepository stores package purchases and their payment state.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order Order) error
	UpdateOrder(ctx context.Context, order Order) error
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrdersForMember(ctx context.Context, memberID string) ([]Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	HasPaidOrder(ctx context.Context, memberID string) (bool, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// RecurringClassRepository stores weekly class templates.
type RecurringClassRepository interface {
	CreateRecurringClass(ctx context.Context, template RecurringClass) error
	GetRecurringClass(ctx context.Context, id string) (RecurringClass, error)
	ListRecurringClasses(ctx context.Context) ([]RecurringClass, error)
	DeleteRecurringClass(ctx context.Context, id string) error
}
