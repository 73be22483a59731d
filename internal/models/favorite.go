package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidFavoriteTarget = errors.New("favorite must reference exactly one of planet or people")

// FavoriteTarget names the kind of record a favorite points at.
type FavoriteTarget string

const (
	TargetPlanet FavoriteTarget = "planet"
	TargetPeople FavoriteTarget = "people"
)

func (t FavoriteTarget) Valid() bool {
	return t == TargetPlanet || t == TargetPeople
}

// Column returns the favorites column holding ids of this target kind.
func (t FavoriteTarget) Column() string {
	if t == TargetPeople {
		return "people_id"
	}
	return "planet_id"
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PlanetID  *uint     `gorm:"index" json:"planet_id"`
	PeopleID  *uint     `gorm:"index" json:"people_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Planet *Planet `gorm:"foreignKey:PlanetID" json:"-"`
	People *People `gorm:"foreignKey:PeopleID" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// NewFavorite builds a favorite of userID pointing at exactly one record.
func NewFavorite(userID uint, target FavoriteTarget, targetID uint) Favorite {
	f := Favorite{UserID: userID}
	id := targetID
	switch target {
	case TargetPlanet:
		f.PlanetID = &id
	case TargetPeople:
		f.PeopleID = &id
	}
	return f
}

func (f *Favorite) Validate() error {
	if (f.PlanetID == nil) == (f.PeopleID == nil) {
		return ErrInvalidFavoriteTarget
	}
	return nil
}

// Target reports which kind of record the favorite references and its id.
func (f *Favorite) Target() (FavoriteTarget, uint) {
	if f.PlanetID != nil {
		return TargetPlanet, *f.PlanetID
	}
	if f.PeopleID != nil {
		return TargetPeople, *f.PeopleID
	}
	return "", 0
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	return f.Validate()
}

type FavoriteResponse struct {
	ID       uint  `json:"id"`
	UserID   uint  `json:"user_id"`
	PlanetID *uint `json:"planet_id"`
	PeopleID *uint `json:"people_id"`
}

func (f *Favorite) ToResponse() FavoriteResponse {
	return FavoriteResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		PlanetID: f.PlanetID,
		PeopleID: f.PeopleID,
	}
}
