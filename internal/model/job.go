package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job is a posting published by a recruiter for one of their companies.
type Job struct {
	ID              uuid.UUID  `json:"_id" gorm:"type:char(36);primaryKey"`
	Title           string     `json:"title" gorm:"size:255;not null;index"`
	Description     string     `json:"description" gorm:"type:text;not null"`
	Requirements    StringList `json:"requirements" gorm:"type:json"`
	Salary          int64      `json:"salary" gorm:"not null"`
	Location        string     `json:"location" gorm:"size:255;not null"`
	JobType         string     `json:"jobType" gorm:"size:64;not null"`
	ExperienceLevel int        `json:"experienceLevel" gorm:"not null"`
	Position        int        `json:"position" gorm:"not null"`
	CompanyID       uuid.UUID  `json:"company" gorm:"type:char(36);not null;index"`
	CreatedBy       uuid.UUID  `json:"created_by" gorm:"type:char(36);not null;index"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Company *Company `json:"companyDetails,omitempty" gorm:"foreignKey:CompanyID"`
}

// BeforeCreate sets UUID before creating the record.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
