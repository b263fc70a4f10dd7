package domain

import "fmt"

// RefKind tells how a Ref names its target.
type RefKind int

const (
	RefNone RefKind = iota
	RefByID
	RefByName
)

// Ref points at an account or category either by id or by name. The zero
// value references nothing.
type Ref struct {
	kind RefKind
	id   uint
	name string
}

// ByID references an existing entity by id.
func ByID(id uint) Ref { return Ref{kind: RefByID, id: id} }

// ByName references an entity by name; resolvers create it when missing.
func ByName(name string) Ref { return Ref{kind: RefByName, name: name} }

// RefFrom builds a Ref from the optional id and name fields of a request.
// Supplying both is rejected with ErrInvalidRef, supplying neither yields
// the zero Ref.
func RefFrom(id *uint, name *string) (Ref, error) {
	switch {
	case id != nil && name != nil:
		return Ref{}, ErrInvalidRef
	case id != nil:
		return ByID(*id), nil
	case name != nil:
		return ByName(*name), nil
	default:
		return Ref{}, nil
	}
}

func (r Ref) Kind() RefKind { return r.kind }
func (r Ref) ID() uint      { return r.id }
func (r Ref) Name() string  { return r.name }
func (r Ref) IsZero() bool  { return r.kind == RefNone }

func (r Ref) String() string {
	switch r.kind {
	case RefByID:
		return fmt.Sprintf("id:%d", r.id)
	case RefByName:
		return fmt.Sprintf("name:%q", r.name)
	default:
		return "none"
	}
}
