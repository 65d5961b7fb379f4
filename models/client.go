package models

import (
	"time"

	"gorm.io/gorm"
)

type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string `json:"name"`
	NationalID string `json:"nationalId" gorm:"column:national_id;uniqueIndex;type:varchar(32)"`
	Email      string `json:"email"`
	Phone      string `json:"phone" gorm:"type:varchar(20)"`

	PostalCode string `json:"postalCode" gorm:"column:postal_code;type:varchar(10)"`
	Street     string `json:"street"`
	Number     string `json:"number" gorm:"type:varchar(10)"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state" gorm:"type:varchar(2)"`
}
