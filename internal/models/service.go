package models

import "time"

// Service is an entry in the catalog of offered services.
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       string    `json:"price" gorm:"type:varchar(50)"`
	CreatedAt   time.Time `json:"created_at"`
}
