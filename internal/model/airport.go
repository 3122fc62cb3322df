// internal/model/airport.go
package model

// Airport is an immutable reference record identified by its IATA code.
type Airport struct {
	Code    string `gorm:"type:char(3);primaryKey" json:"code"`
	Name    string `gorm:"not null" json:"name"`
	City    string `gorm:"not null" json:"city"`
	Country string `gorm:"not null" json:"country"`
	Region  string `gorm:"not null" json:"region"`
}

func (Airport) TableName() string {
	return "airports"
}

type CreateAirportRequest struct {
	Code    string `json:"code" validate:"required,len=3,alpha"`
	Name    string `json:"name" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
	Region  string `json:"region" validate:"required"`
}
