// internal/model/models.go
package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// User is the profile snapshot fetched once per story request.
type User struct {
	Login       string    `json:"login" validate:"required"`
	ID          int64     `json:"id"`
	AvatarURL   string    `json:"avatar_url"`
	Name        *string   `json:"name"`
	Bio         *string   `json:"bio"`
	Location    *string   `json:"location"`
	PublicRepos int       `json:"public_repos" validate:"gte=0"`
	Followers   int       `json:"followers" validate:"gte=0"`
	Following   int       `json:"following" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository represents the metadata of a GitHub repository.
type Repository struct {
	ID           int64     `json:"id"`
	Owner        string    `json:"-"`
	Name         string    `json:"name" validate:"required"`
	FullName     string    `json:"full_name"`
	Description  *string   `json:"description"`
	URL          string    `json:"html_url"`
	Language     *string   `json:"language"`
	StarsCount   int       `json:"stargazers_count" validate:"gte=0"`
	ForksCount   int       `json:"forks_count" validate:"gte=0"`
	UpdatedAt    time.Time `json:"updated_at"`
	LanguagesURL string    `json:"languages_url"`
}

// LanguageStat is one entry of the language breakdown.
type LanguageStat struct {
	Name       string  `json:"name" validate:"required"`
	Bytes      int     `json:"bytes" validate:"gte=0"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type DayCount struct {
	Day   string `json:"day" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

type HourCount struct {
	Hour  int `json:"hour" validate:"gte=0,lte=23"`
	Count int `json:"count" validate:"gte=0"`
}

// CommitActivity holds commit histograms by weekday (Sunday first) and by hour.
type CommitActivity struct {
	ByDay  []DayCount  `json:"byDay" validate:"len=7,dive"`
	ByHour []HourCount `json:"byHour" validate:"len=24,dive"`
}

type Stats struct {
	PublicRepos    int `json:"public_repos" validate:"gte=0"`
	TotalStars     int `json:"total_stars" validate:"gte=0"`
	TotalForks     int `json:"total_forks" validate:"gte=0"`
	LanguagesCount int `json:"languages_count" validate:"gte=0"`
}

// Story is the aggregated payload returned for a username.
type Story struct {
	User           User           `json:"user"`
	Stats          Stats          `json:"stats"`
	TopRepos       []Repository   `json:"topRepos" validate:"max=5,dive"`
	Languages      []LanguageStat `json:"languages" validate:"max=8,dive"`
	CommitActivity CommitActivity `json:"commitActivity"`
}

var validate = validator.New()

// Validate checks the story against its payload contract.
func (s *Story) Validate() error {
	return validate.Struct(s)
}
