package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a hiring organisation owned by a recruiter.
type Company struct {
	ID          uuid.UUID `json:"_id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Website     string    `json:"website" gorm:"size:512"`
	Location    string    `json:"location" gorm:"size:255"`
	Logo        string    `json:"logo" gorm:"size:1024"`
	UserID      uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompanyPatch lists the company fields an update may overwrite.
type CompanyPatch struct {
	Name        *string
	Description *string
	Website     *string
	Location    *string
	Logo        *string
}

// Empty reports whether the patch changes nothing.
func (p CompanyPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Website == nil &&
		p.Location == nil && p.Logo == nil
}

// Columns returns the patch as a column map.
func (p CompanyPatch) Columns() map[string]any {
	cols := map[string]any{}
	putIf(cols, "name", p.Name)
	putIf(cols, "description", p.Description)
	putIf(cols, "website", p.Website)
	putIf(cols, "location", p.Location)
	putIf(cols, "logo", p.Logo)
	return cols
}
