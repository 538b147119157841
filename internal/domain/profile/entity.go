package profile

import (
	"time"

	"github.com/google/uuid"
)

// AccountKind is fixed when a profile is first set up.
type AccountKind string

const (
	KindContentCreator AccountKind = "content_creator"
	KindBusinessOwner  AccountKind = "business_owner"
)

func (k AccountKind) Valid() bool {
	return k == KindContentCreator || k == KindBusinessOwner
}

type Profile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Username    string
	FirstName   string
	LastName    string
	PhotoURL    string
	City        string
	Country     string
	Bio         string
	AccountKind AccountKind
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
