package domain

import (
	"strings"
	"time"
)

// Insumo is one trackable content item inside an edition.
type Insumo struct {
	ID        string
	EditionID string
	TypeID    string
	Title     string
	Status    InsumoStatus

	Content string
	Notes   string

	// DueDate carries day granularity only; time-of-day is ignored.
	DueDate *time.Time

	SubmittedBy      string
	SubmittedAt      *time.Time
	ReviewedBy       string
	ReviewedAt       *time.Time
	AdjustmentReason string

	// Version is a monotonic stamp bumped on every accepted mutation.
	// The reconciler compares it to discard late write responses and
	// stale refetches.
	Version int64

	Attachments  []Attachment
	Tags         []Tag
	Responsibles []UserRef

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasContent reports whether the insumo carries non-empty trimmed text.
// It is the precondition for advancing past the authoring stages.
func (i *Insumo) HasContent() bool {
	return strings.TrimSpace(i.Content) != ""
}

// IsDelayed reports whether the insumo is overdue: not approved and its
// due date falls strictly before today (day granularity).
func (i *Insumo) IsDelayed(today time.Time) bool {
	if i.Status == StatusApproved || i.DueDate == nil {
		return false
	}
	return DayKey(*i.DueDate) < DayKey(today)
}

// DueOn reports whether the insumo's due date falls on the given day.
func (i *Insumo) DueOn(day time.Time) bool {
	return i.DueDate != nil && DayKey(*i.DueDate) == DayKey(day)
}

// Clone returns a deep copy, used for reconciler snapshots.
func (i *Insumo) Clone() *Insumo {
	c := *i
	if i.DueDate != nil {
		d := *i.DueDate
		c.DueDate = &d
	}
	if i.SubmittedAt != nil {
		t := *i.SubmittedAt
		c.SubmittedAt = &t
	}
	if i.ReviewedAt != nil {
		t := *i.ReviewedAt
		c.ReviewedAt = &t
	}
	c.Attachments = append([]Attachment(nil), i.Attachments...)
	c.Tags = append([]Tag(nil), i.Tags...)
	c.Responsibles = append([]UserRef(nil), i.Responsibles...)
	return &c
}

// DayKey formats a time as its ISO date key (YYYY-MM-DD in UTC).
// Calendar cells and day-granularity comparisons use this key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Attachment is a file attached to an insumo. The insumo exclusively owns
// its attachment list; upload plumbing lives outside the core.
type Attachment struct {
	ID         string
	InsumoID   string
	Kind       AttachmentKind
	Filename   string
	URL        string
	Caption    string
	SizeBytes  int64
	UploadedBy string
	CreatedAt  time.Time
}

// Tag is a label referenced by insumos (many-to-many, not owned).
type Tag struct {
	ID    string
	Name  string
	Color string
}

// UserRef is a lightweight reference to a responsible user.
type UserRef struct {
	ID   string
	Name string
}
