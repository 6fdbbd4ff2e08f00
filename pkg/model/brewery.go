package model

type Brewery struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100"`
	Address   string  `gorm:"size:100"`
	City      string  `gorm:"size:50"`
	State     string  `gorm:"size:2"`
	Zip       string  `gorm:"size:11"`
	Monday    *string `gorm:"size:30"`
	Tuesday   *string `gorm:"size:30"`
	Wednesday *string `gorm:"size:30"`
	Thursday  *string `gorm:"size:30"`
	Friday    *string `gorm:"size:30"`
	Saturday  *string `gorm:"size:30"`
	Sunday    *string `gorm:"size:30"`
	Comments  *string `gorm:"size:255"`
	BrewType  string  `gorm:"size:50;default:Brewery"`
	Website   *string `gorm:"size:255"`
	X         float64
	Y         float64
	CreatedBy *uint

	Beers []Beer `gorm:"foreignKey:BreweryID"`
}
