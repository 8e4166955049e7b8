package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultThemeColor is used for programs created without a theme color
const DefaultThemeColor = "#3B82F6"

// Program is an educational program students can enroll in
type Program struct {
	bun.BaseModel `bun:"table:programs,alias:prg"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Description   string    `bun:"description,notnull" json:"description"`
	Tagline       string    `bun:"tagline,notnull" json:"tagline"`
	LogoURL       string    `bun:"logo_url" json:"logo_url,omitempty"`
	ThemeColor    string    `bun:"theme_color,notnull" json:"theme_color"`
	Overview      string    `bun:"overview,notnull" json:"overview"`
	CreatedBy     uuid.UUID `bun:"created_by,type:uuid" json:"created_by"`
	IsActive      bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
	EnrolledCount int       `bun:"-" json:"enrolled_count"`
}

// EnrollmentStatus is the admin decision on an enrollment request
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	default:
		return false
	}
}

// Enrollment is a student's request to join a program. A student has at
// most one enrollment per program.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:enr"`
	ID            uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	StudentID     uuid.UUID        `bun:"student_id,notnull,type:uuid" json:"student_id"`
	ProgramID     uuid.UUID        `bun:"program_id,notnull,type:uuid" json:"program_id"`
	Status        EnrollmentStatus `bun:"status,notnull" json:"status"`
	RequestedAt   time.Time        `bun:"requested_at,notnull" json:"requested_at"`
	ApprovedAt    *time.Time       `bun:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy    string           `bun:"approved_by,nullzero" json:"approved_by,omitempty"`
	StudentName   string           `bun:"-" json:"student_name,omitempty"`
	ProgramName   string           `bun:"-" json:"program_name,omitempty"`
}

// TabType is the display variant of a tab
type TabType string

const (
	TabTypeInformational TabType = "informational"
	TabTypeFeatured      TabType = "featured"
)

// ProgramTab is an admin-managed card shown on the programs page
type ProgramTab struct {
	bun.BaseModel    `bun:"table:program_tabs,alias:ptab"`
	ID               uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title            string    `bun:"title,notnull" json:"title"`
	Description      string    `bun:"description,notnull" json:"description"`
	Image            string    `bun:"image" json:"image,omitempty"`
	BorderColorLight string    `bun:"border_color_light,notnull" json:"border_color_light"`
	BorderColorDark  string    `bun:"border_color_dark,notnull" json:"border_color_dark"`
	Type             TabType   `bun:"type,notnull" json:"type"`
	Position         int       `bun:"position,notnull" json:"position"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// StatTab is an admin-managed figure shown on the landing page
type StatTab struct {
	bun.BaseModel    `bun:"table:stat_tabs,alias:stab"`
	ID               uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title            string    `bun:"title,notnull" json:"title"`
	Value            string    `bun:"value,notnull" json:"value"`
	BorderColorLight string    `bun:"border_color_light,notnull" json:"border_color_light"`
	BorderColorDark  string    `bun:"border_color_dark,notnull" json:"border_color_dark"`
	Type             TabType   `bun:"type,notnull" json:"type"`
	Position         int       `bun:"position,notnull" json:"position"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// ContentType tells the front end how to render a content value
type ContentType string

const (
	ContentText ContentType = "text"
	ContentHTML ContentType = "html"
	ContentURL  ContentType = "url"
)

// ContentItem is an admin-editable piece of UI text addressed by key
type ContentItem struct {
	bun.BaseModel `bun:"table:content_items,alias:cnt"`
	Key           string      `bun:"key,pk" json:"key"`
	Value         string      `bun:"value,notnull" json:"value"`
	Type          ContentType `bun:"type,notnull" json:"type"`
	UpdatedBy     string      `bun:"updated_by,nullzero" json:"updated_by,omitempty"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull" json:"updated_at"`
}

// StatusCheck is a client ping record
type StatusCheck struct {
	bun.BaseModel `bun:"table:status_checks,alias:sc"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ClientName    string    `bun:"client_name,notnull" json:"client_name"`
	Timestamp     time.Time `bun:"timestamp,notnull" json:"timestamp"`
}

func (p *Program) GetID() uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.ID
}

func (p *Program) SetID(id uuid.UUID) { p.ID = id }

func (e *Enrollment) GetID() uuid.UUID {
	if e == nil {
		return uuid.Nil
	}
	return e.ID
}

func (e *Enrollment) SetID(id uuid.UUID) { e.ID = id }

func (t *ProgramTab) GetID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.ID
}

func (t *ProgramTab) SetID(id uuid.UUID) { t.ID = id }

func (t *StatTab) GetID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.ID
}

func (t *StatTab) SetID(id uuid.UUID) { t.ID = id }
