package model

import "time"

type Category struct {
	ID      uint      `gorm:"primaryKey"`
	CatName string    `gorm:"size:100;not null"`
	LastMod time.Time `gorm:"autoUpdateTime"`

	Styles []Style `gorm:"foreignKey:CatID"`
}

type Style struct {
	ID        uint `gorm:"primaryKey"`
	CatID     uint
	StyleName string    `gorm:"size:100;not null"`
	LastMod   time.Time `gorm:"autoUpdateTime"`
}
