package model

type Beer struct {
	ID          uint `gorm:"primaryKey"`
	BreweryID   uint
	Name        string   `gorm:"size:150"`
	Description *string  `gorm:"size:500"`
	Style       *string  `gorm:"size:50"`
	Alc         *float64 `gorm:"column:alc"`
	IBU         *int
	Color       *string `gorm:"size:25"`
	CreatedBy   *uint

	Photos []BeerPhoto `gorm:"foreignKey:BeerID"`
}

// BeerPhoto holds the thumbnail payload only when the process-wide photo
// storage mode is "database"; in filesystem mode Data stays NULL and the
// bytes live at a path derived from PhotoName.
type BeerPhoto struct {
	ID        uint `gorm:"primaryKey"`
	BeerID    uint
	PhotoName string `gorm:"size:100"`
	Data      []byte
}
