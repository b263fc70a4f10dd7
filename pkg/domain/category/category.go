package category

import (
	"fmt"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/google/uuid"
)

// Category is a named classification for postings. Categories form a forest
// per owner through ParentID.
type Category struct {
	ID        uint
	OwnerID   uuid.UUID
	Name      string
	ParentID  *uint
	CreatedAt time.Time
}

// New validates and returns an unsaved category. The caller is responsible
// for checking that the parent, when set, belongs to the same owner.
func New(owner uuid.UUID, name string, parentID *uint) (*Category, error) {
	if owner == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	return &Category{OwnerID: owner, Name: name, ParentID: parentID}, nil
}
