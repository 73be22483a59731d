package models

type Planet struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:250;not null" json:"name"`
	Diameter       string `gorm:"size:50" json:"diameter"`
	RotationPeriod string `gorm:"size:50" json:"rotation_period"`
	OrbitalPeriod  string `gorm:"size:50" json:"orbital_period"`
	Gravity        string `gorm:"size:50" json:"gravity"`
	Population     string `gorm:"size:50" json:"population"`
	Climate        string `gorm:"size:100" json:"climate"`
	Terrain        string `gorm:"size:100" json:"terrain"`
	SurfaceWater   string `gorm:"size:50" json:"surface_water"`
	FavoritesCount int    `gorm:"not null;default:0" json:"favorites_count"`

	Favorites []Favorite `gorm:"foreignKey:PlanetID" json:"-"`
}

func (Planet) TableName() string {
	return "planets"
}

type PlanetResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Diameter       string `json:"diameter"`
	RotationPeriod string `json:"rotation_period"`
	OrbitalPeriod  string `json:"orbital_period"`
	Gravity        string `json:"gravity"`
	Population     string `json:"population"`
	Climate        string `json:"climate"`
	Terrain        string `json:"terrain"`
	SurfaceWater   string `json:"surface_water"`
	FavoritesCount int    `json:"favorites_count"`
}

func (p *Planet) ToResponse() PlanetResponse {
	return PlanetResponse{
		ID:             p.ID,
		Name:           p.Name,
		Diameter:       p.Diameter,
		RotationPeriod: p.RotationPeriod,
		OrbitalPeriod:  p.OrbitalPeriod,
		Gravity:        p.Gravity,
		Population:     p.Population,
		Climate:        p.Climate,
		Terrain:        p.Terrain,
		SurfaceWater:   p.SurfaceWater,
		FavoritesCount: p.FavoritesCount,
	}
}
