package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teuprojeto/flowrev/internal/domain"
)

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// Product options
type ProductOption func(*domain.Product)

func WithProductInactive() ProductOption {
	return func(p *domain.Product) {
		p.Active = false
	}
}

func WithSortOrder(n int) ProductOption {
	return func(p *domain.Product) {
		p.SortOrder = n
	}
}

func NewTestProduct(name string, opts ...ProductOption) *domain.Product {
	now := time.Now().UTC()
	p := &domain.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slugify(name),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// InsumoType options
type TypeOption func(*domain.InsumoType)

func WithTypeInactive() TypeOption {
	return func(it *domain.InsumoType) {
		it.Active = false
	}
}

func WithRequirements(image, caption, pdf bool) TypeOption {
	return func(it *domain.InsumoType) {
		it.RequiresImage = image
		it.RequiresCaption = caption
		it.RequiresPDF = pdf
	}
}

func WithTypeSortOrder(n int) TypeOption {
	return func(it *domain.InsumoType) {
		it.SortOrder = n
	}
}

func NewTestInsumoType(name string, opts ...TypeOption) *domain.InsumoType {
	it := &domain.InsumoType{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slugify(name),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Edition options
type EditionOption func(*domain.Edition)

func WithPhase(p domain.ProductionPhase) EditionOption {
	return func(e *domain.Edition) {
		e.Phase = p
	}
}

func NewTestEdition(productID string, year, month int, opts ...EditionOption) *domain.Edition {
	now := time.Now().UTC()
	e := &domain.Edition{
		ID:        uuid.New().String(),
		ProductID: productID,
		Year:      year,
		Month:     month,
		Phase:     domain.PhaseKickoff,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Insumo options
type InsumoOption func(*domain.Insumo)

func WithStatus(s domain.InsumoStatus) InsumoOption {
	return func(i *domain.Insumo) {
		i.Status = s
	}
}

func WithContent(c string) InsumoOption {
	return func(i *domain.Insumo) {
		i.Content = c
	}
}

func WithNotes(n string) InsumoOption {
	return func(i *domain.Insumo) {
		i.Notes = n
	}
}

func WithDueDate(d time.Time) InsumoOption {
	return func(i *domain.Insumo) {
		i.DueDate = &d
	}
}

func WithVersion(v int64) InsumoOption {
	return func(i *domain.Insumo) {
		i.Version = v
	}
}

func WithSubmittedBy(userID string, at time.Time) InsumoOption {
	return func(i *domain.Insumo) {
		i.SubmittedBy = userID
		i.SubmittedAt = &at
	}
}

func WithAdjustmentReason(r string) InsumoOption {
	return func(i *domain.Insumo) {
		i.AdjustmentReason = r
	}
}

func NewTestInsumo(editionID, typeID, title string, opts ...InsumoOption) *domain.Insumo {
	now := time.Now().UTC()
	i := &domain.Insumo{
		ID:        uuid.New().String(),
		EditionID: editionID,
		TypeID:    typeID,
		Title:     title,
		Status:    domain.StatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(e string) UserOption {
	return func(u *domain.User) {
		u.Email = e
	}
}

func WithProductSlugs(slugs ...string) UserOption {
	return func(u *domain.User) {
		u.ProductSlugs = slugs
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      domain.RoleAnalyst,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Attachment options
type AttachmentOption func(*domain.Attachment)

func WithCaption(c string) AttachmentOption {
	return func(a *domain.Attachment) {
		a.Caption = c
	}
}

func WithUploadedBy(userID string) AttachmentOption {
	return func(a *domain.Attachment) {
		a.UploadedBy = userID
	}
}

func NewTestAttachment(insumoID string, kind domain.AttachmentKind, filename string, opts ...AttachmentOption) *domain.Attachment {
	a := &domain.Attachment{
		ID:        uuid.New().String(),
		InsumoID:  insumoID,
		Kind:      kind,
		Filename:  filename,
		URL:       "file://" + filename,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestTag(name, color string) *domain.Tag {
	return &domain.Tag{
		ID:    uuid.New().String(),
		Name:  name,
		Color: color,
	}
}
