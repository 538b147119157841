package seeder

import (
	"context"
	"fmt"

	"creatorhub/internal/database"
	"creatorhub/internal/domain/profile"

	"golang.org/x/crypto/bcrypt"
)

type demoAccount struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	City      string
	Country   string
	Bio       string
	Kind      profile.AccountKind
}

var demoAccounts = []demoAccount{
	{Email: "studio@demo.creatorhub.dev", Username: "lantern_studio", FirstName: "Lantern", LastName: "Studio", City: "Taipei", Country: "Taiwan", Bio: "Tea house chain looking for short-form video.", Kind: profile.KindBusinessOwner},
	{Email: "bakery@demo.creatorhub.dev", Username: "kornblume", FirstName: "Kornblume", LastName: "Bakery", City: "Berlin", Country: "Germany", Bio: "Sourdough and seasonal cakes.", Kind: profile.KindBusinessOwner},
	{Email: "mei@demo.creatorhub.dev", Username: "mei.films", FirstName: "Mei", LastName: "Chen", City: "Kaohsiung", Country: "Taiwan", Bio: "Food and travel reels.", Kind: profile.KindContentCreator},
	{Email: "jonas@demo.creatorhub.dev", Username: "jonas_draws", FirstName: "Jonas", LastName: "Weber", City: "Hamburg", Country: "Germany", Bio: "Illustration and logo work.", Kind: profile.KindContentCreator},
	{Email: "rita@demo.creatorhub.dev", Username: "rita.voice", FirstName: "Rita", LastName: "Sousa", City: "Lisbon", Country: "Portugal", Bio: "Voice over in PT, EN and ES.", Kind: profile.KindContentCreator},
}

// AccountsSeeder creates one user and profile per demo account. Existing
// emails are left untouched.
type AccountsSeeder struct {
	Password string
}

func (AccountsSeeder) Name() string { return "accounts" }

func (s AccountsSeeder) Run(ctx context.Context, db database.DB) error {
	if len(s.Password) < 8 {
		return fmt.Errorf("demo password must be at least 8 characters")
	}
	if err := RequireTables(ctx, db, "users", "profiles"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, a := range demoAccounts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (email, password_hash)
			 SELECT $1, $2
			 WHERE NOT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`,
			a.Email, string(hash),
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO profiles (user_id, username, first_name, last_name, city, country, bio, account_kind)
			 SELECT u.id, $2, $3, $4, $5, $6, $7, $8
			 FROM users u
			 WHERE lower(u.email) = lower($1)
			 ON CONFLICT (user_id) DO NOTHING`,
			a.Email, a.Username, a.FirstName, a.LastName, a.City, a.Country, a.Bio, string(a.Kind),
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
