package dto

import (
	"time"

	"creatorhub/internal/domain/profile"
	ucprofile "creatorhub/internal/usecase/profile"
)

type ProfileResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhotoURL    string    `json:"photo_url"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Bio         string    `json:"bio"`
	AccountKind string    `json:"account_kind"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID.String(),
		Username:    p.Username,
		Name:        p.FullName(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhotoURL:    p.PhotoURL,
		City:        p.City,
		Country:     p.Country,
		Bio:         p.Bio,
		AccountKind: string(p.AccountKind),
		CreatedAt:   p.CreatedAt,
	}
}

func NewProfileListResponse(ps []profile.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewProfileResponse(p))
	}
	return out
}

type ProfileRequest struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhotoURL    string `json:"photo_url"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Bio         string `json:"bio"`
	AccountKind string `json:"account_kind"`
}

func (r ProfileRequest) Input() ucprofile.SetupInput {
	return ucprofile.SetupInput{
		Username:    r.Username,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhotoURL:    r.PhotoURL,
		City:        r.City,
		Country:     r.Country,
		Bio:         r.Bio,
		AccountKind: profile.AccountKind(r.AccountKind),
	}
}

type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}
