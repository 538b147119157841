package seeder

import (
	"context"

	"creatorhub/internal/database"
)

// Seeder writes one group of demo rows. Run must be safe to repeat against a
// database that already holds the demo accounts or postings.
type Seeder interface {
	// Name shows up in the runner's log lines and wrapped errors.
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults seeds demo accounts first; postings reference their profiles.
func Defaults(password string) []Seeder {
	return []Seeder{
		AccountsSeeder{Password: password},
		PostingsSeeder{},
	}
}
