package application

import "time"

// Role classifies an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Principal represents the authenticated account invoking a service method.
type Principal struct {
	MemberID string
	Role     Role
}

// IsAdmin reports whether the principal may perform administrative operations.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Member represents a studio account.
type Member struct {
	ID          string
	Email       string
	DisplayName string
	Phone       string
	Role        Role
	// HasPurchasedPackage is tri-state: nil means the flag has never been
	// synced against the order records.
	HasPurchasedPackage *bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// MemberInput captures caller provided member attributes.
type MemberInput struct {
	Email       string
	DisplayName string
	Phone       string
	Role        Role
}

// CreateMemberParams wraps the data required to create a member.
type CreateMemberParams struct {
	Principal Principal
	Input     MemberInput
	Password  string
}

// UpdateMemberParams wraps the data required to update a member.
type UpdateMemberParams struct {
	Principal Principal
	MemberID  string
	Input     MemberInput
}

// MemberCredentials models the authentication attributes persisted for a member.
type MemberCredentials struct {
	Member       Member
	PasswordHash string
	Disabled     bool
}

// Trainer represents an instructor on the studio roster.
type Trainer struct {
	ID        string
	Name      string
	Specialty string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrainerInput captures caller provided trainer fields.
type TrainerInput struct {
	Name      string
	Specialty string
}

// CreateTrainerParams wraps the data required to create a trainer.
type CreateTrainerParams struct {
	Principal Principal
	Input     TrainerInput
}

// UpdateTrainerParams wraps the data required to update a trainer.
type UpdateTrainerParams struct {
	Principal Principal
	TrainerID string
	Input     TrainerInput
}

// ClassType distinguishes the three bookable class kinds.
type ClassType string

const (
	ClassGroup       ClassType = "group"
	ClassSemiPrivate ClassType = "semi_private"
	ClassPrivate     ClassType = "private"
)

// ValidClassType reports whether t names a known class type.
func ValidClassType(t ClassType) bool {
	switch t {
	case ClassGroup, ClassSemiPrivate, ClassPrivate:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a booking on a schedule.
type BookingStatus string

const (
	BookingSignup    BookingStatus = "signup"
	BookingWaitlist  BookingStatus = "waitlist"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking records one member's membership of a schedule's lists.
type Booking struct {
	ID         string
	ScheduleID string
	MemberID   string
	MemberName string
	Status     BookingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Schedule represents one bookable class instance.
type Schedule struct {
	ID          string
	Type        ClassType
	Date        time.Time // civil date, midnight UTC
	TimeStart   string    // "15:04"
	TimeEnd     string    // "15:04"
	TrainerID   string
	TrainerName string
	ClassName   string
	ClassColor  string
	Room        string
	Capacity    int
	SignupCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Booking sub-lists, populated on detail reads only.
	SignupBookings    []Booking
	WaitlistBookings  []Booking
	CancelledBookings []Booking
}

// ScheduleInput captures caller provided schedule fields.
type ScheduleInput struct {
	Type       ClassType
	Date       time.Time
	TimeStart  string
	TimeEnd    string
	TrainerID  string
	ClassName  string
	ClassColor string
	Room       string
	Capacity   int
}

// CreateScheduleParams wraps the data required to create a schedule.
type CreateScheduleParams struct {
	Principal Principal
	Input     ScheduleInput
}

// UpdateScheduleParams wraps the data required to update an existing schedule.
type UpdateScheduleParams struct {
	Principal  Principal
	ScheduleID string
	Input      ScheduleInput
}

// AddBookingParams wraps the data required to put a member on a schedule.
type AddBookingParams struct {
	Principal  Principal
	ScheduleID string
	MemberID   string
}

// ConflictWarning describes a double-booking that should be surfaced to callers.
type ConflictWarning struct {
	ScheduleID string
	Type       string
	TrainerID  string
	Room       string
}

// CalendarMonth is the assembled schedule map for one visible month.
type CalendarMonth struct {
	// ByDate maps ISO dates to that day's schedules, time-ascending. Dates
	// outside the month that carry schedules are retained.
	ByDate map[string][]Schedule
	// Schedules is the flat time-ascending listing of the same records.
	Schedules []Schedule
}

// PackageCategory distinguishes the four package variants sold by the studio.
type PackageCategory string

const (
	PackageMembership PackageCategory = "membership"
	PackageTrial      PackageCategory = "trial"
	PackagePromo      PackageCategory = "promo"
	PackageBonus      PackageCategory = "bonus"
)

// ValidPackageCategory reports whether c names a known category.
func ValidPackageCategory(c PackageCategory) bool {
	switch c {
	case PackageMembership, PackageTrial, PackagePromo, PackageBonus:
		return true
	}
	return false
}

// Package represents a sellable class package.
type Package struct {
	ID          string
	Name        string
	Category    PackageCategory
	Description string
	PriceIDR    int64
	Credits     int
	// DurationDays applies to membership and trial packages.
	DurationDays int
	// DiscountPercent, ValidFrom and ValidUntil apply to promo packages.
	DiscountPercent int
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	// BasePackageID and BonusCredits apply to bonus packages.
	BasePackageID *string
	BonusCredits  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PackageInput captures caller provided package fields.
type PackageInput struct {
	Name            string
	Category        PackageCategory
	Description     string
	PriceIDR        int64
	Credits         int
	DurationDays    int
	DiscountPercent int
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	BasePackageID   *string
	BonusCredits    int
}

// CreatePackageParams wraps the data required to create a package.
type CreatePackageParams struct {
	Principal Principal
	Input     PackageInput
}

// UpdatePackageParams wraps the data required to update a package.
type UpdatePackageParams struct {
	Principal Principal
	PackageID string
	Input     PackageInput
}

// OrderStatus is the payment lifecycle state of a package order.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
	OrderExpired OrderStatus = "expired"
)

// Order represents one member's purchase of a package.
type Order struct {
	ID              string
	MemberID        string
	PackageID       string
	PackageName     string
	AmountIDR       int64
	Status          OrderStatus
	SnapToken       string
	SnapRedirectURL string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateOrderParams wraps the data required to start a purchase.
type CreateOrderParams struct {
	Principal Principal
	PackageID string
}

// PaymentNotification is the gateway callback payload the order service
// consumes. GrossAmount carries the gateway's decimal amount string and is
// checked against the order before a settlement is applied.
type PaymentNotification struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	GrossAmount       string
}

// SnapTransaction is the gateway's response to a newly created transaction.
type SnapTransaction struct {
	Token       string
	RedirectURL string
}

// Session represents an authenticated session issued to a member.
type Session struct {
	ID        string
	MemberID  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a member.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	Member  Member
	Session Session
}

// RefreshSessionParams captures the data required to rotate a session token.
type RefreshSessionParams struct {
	Token string
}

// RefreshSessionResult captures the rotated session.
type RefreshSessionResult struct {
	Session Session
}

// RecurringClass is a weekly class template expanded into calendar occurrences.
type RecurringClass struct {
	ID         string
	Type       ClassType
	Weekdays   []time.Weekday
	TimeStart  string
	TimeEnd    string
	TrainerID  string
	ClassName  string
	ClassColor string
	Room       string
	Capacity   int
	StartsOn   time.Time
	EndsOn     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RecurringClassInput captures caller provided template fields.
type RecurringClassInput struct {
	Type       ClassType
	Weekdays   []time.Weekday
	TimeStart  string
	TimeEnd    string
	TrainerID  string
	ClassName  string
	ClassColor string
	Room       string
	Capacity   int
	StartsOn   time.Time
	EndsOn     *time.Time
}

// CreateRecurringClassParams wraps the data required to create a template.
type CreateRecurringClassParams struct {
	Principal Principal
	Input     RecurringClassInput
}
