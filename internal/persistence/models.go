package persistence

import "time"

// Member is the stored representation of a studio account. PasswordHash and
// Disabled never leave the persistence layer except through credential lookups.
type Member struct {
	ID           string
	Email        string
	DisplayName  string
	Phone        string
	Role         string
	PasswordHash string
	Disabled     bool
	// HasPurchasedPackage is nil until the flag has been synced at least once.
	HasPurchasedPackage *bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Trainer is the stored representation of an instructor.
type Trainer struct {
	ID        string
	Name      string
	Specialty string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule is the stored representation of one bookable class instance.
// TrainerName is populated on reads by joining the trainers table and is
// ignored on writes.
type Schedule struct {
	ID          string
	ClassType   string
	Date        time.Time // civil date, midnight UTC
	TimeStart   string
	TimeEnd     string
	TrainerID   string
	TrainerName string
	ClassName   string
	ClassColor  string
	Room        string
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScheduleFilter narrows schedule listings. Nil fields match everything.
type ScheduleFilter struct {
	ClassType *string
	TrainerID *string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Booking is the stored representation of a member's place on a schedule.
// MemberName is populated on reads by joining the members table.
type Booking struct {
	ID         string
	ScheduleID string
	MemberID   string
	MemberName string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Package is the stored representation of a sellable class package.
type Package struct {
	ID              string
	Name            string
	Category        string
	Description     string
	PriceIDR        int64
	Credits         int
	DurationDays    int
	DiscountPercent int
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	BasePackageID   *string
	BonusCredits    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Order is the stored representation of a package purchase.
type Order struct {
	ID              string
	MemberID        string
	PackageID       string
	PackageName     string
	AmountIDR       int64
	Status          string
	SnapToken       string
	SnapRedirectURL string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Session is the stored representation of an issued login session.
type Session struct {
	ID        string
	MemberID  string
	Token     string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecurringClass is the stored representation of a weekly class template.
type RecurringClass struct {
	ID         string
	ClassType  string
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
