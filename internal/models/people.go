package models

type People struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:250;not null" json:"name"`
	Height         string `gorm:"size:50" json:"height"`
	Mass           string `gorm:"size:50" json:"mass"`
	HairColor      string `gorm:"size:50" json:"hair_color"`
	SkinColor      string `gorm:"size:50" json:"skin_color"`
	EyeColor       string `gorm:"size:50" json:"eye_color"`
	BirthYear      string `gorm:"size:50" json:"birth_year"`
	Gender         string `gorm:"size:50" json:"gender"`
	FavoritesCount int    `gorm:"not null;default:0" json:"favorites_count"`

	Favorites []Favorite `gorm:"foreignKey:PeopleID" json:"-"`
}

func (People) TableName() string {
	return "people"
}

type PeopleResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Height         string `json:"height"`
	Mass           string `json:"mass"`
	HairColor      string `json:"hair_color"`
	SkinColor      string `json:"skin_color"`
	EyeColor       string `json:"eye_color"`
	BirthYear      string `json:"birth_year"`
	Gender         string `json:"gender"`
	FavoritesCount int    `json:"favorites_count"`
}

func (p *People) ToResponse() PeopleResponse {
	return PeopleResponse{
		ID:             p.ID,
		Name:           p.Name,
		Height:         p.Height,
		Mass:           p.Mass,
		HairColor:      p.HairColor,
		SkinColor:      p.SkinColor,
		EyeColor:       p.EyeColor,
		BirthYear:      p.BirthYear,
		Gender:         p.Gender,
		FavoritesCount: p.FavoritesCount,
	}
}
