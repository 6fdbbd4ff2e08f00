package model

import "time"

// User rows double as the session store: Token is the lookup key for
// request-based authentication and Expires is checked on every token login.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null"`
	Email     string `gorm:"size:100;not null"`
	Username  string `gorm:"size:50;not null;uniqueIndex"`
	Password  string `gorm:"size:255;not null"`
	Token     string `gorm:"size:64;index"`
	Created   time.Time
	LastLogin *time.Time
	Expires   time.Time
	Activated bool `gorm:"default:false"`

	SubmittedBreweries []Brewery `gorm:"foreignKey:CreatedBy"`
	SubmittedBeers     []Beer    `gorm:"foreignKey:CreatedBy"`
}
