package models

import "time"

// Project carries the minimum the bid core needs; project management
// itself lives in another service.
type Project struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	ClientId  string    `json:"clientId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Specialist carries the scoring inputs of a licensed specialist.
type Specialist struct {
	Id              string    `json:"id"`
	FullName        string    `json:"fullName"`
	ExperienceYears float64   `json:"experienceYears"`
	Rating          float64   `json:"rating"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"-"`
}
