package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleSeeker    Role = "seeker"
	RoleRecruiter Role = "recruiter"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSeeker || r == RoleRecruiter
}

// Profile is embedded in User and stored alongside it.
type Profile struct {
	Bio                string     `json:"bio" gorm:"type:text"`
	Skills             StringList `json:"skills" gorm:"type:json"`
	Resume             string     `json:"resume" gorm:"size:1024"`
	ResumeOriginalName string     `json:"resumeOriginalName" gorm:"size:255"`
	ProfilePhoto       string     `json:"profilePhoto" gorm:"size:1024"`
}

// User represents a registered applicant or recruiter.
type User struct {
	ID          uuid.UUID `json:"_id" gorm:"type:char(36);primaryKey"`
	Fullname    string    `json:"fullname" gorm:"size:255;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PhoneNumber string    `json:"phoneNumber" gorm:"size:32;not null"`
	Password    string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed
	Role        Role      `json:"role" gorm:"size:20;not null"`
	Profile     Profile   `json:"profile" gorm:"embedded;embeddedPrefix:profile_"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SafeUser is the part of a User that may be returned to clients.
type SafeUser struct {
	ID          uuid.UUID `json:"_id"`
	Fullname    string    `json:"fullname"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        Role      `json:"role"`
	Profile     Profile   `json:"profile"`
}

// Safe returns the client view of u.
func (u *User) Safe() *SafeUser {
	return &SafeUser{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Profile:     u.Profile,
	}
}

// UserPatch lists the fields an update may overwrite. A nil pointer or a nil
// Skills slice leaves the stored value untouched.
type UserPatch struct {
	Fullname           *string
	Email              *string
	PhoneNumber        *string
	Password           *string
	Bio                *string
	Skills             StringList
	Resume             *string
	ResumeOriginalName *string
	ProfilePhoto       *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Fullname == nil && p.Email == nil && p.PhoneNumber == nil &&
		p.Password == nil && p.Bio == nil && p.Skills == nil &&
		p.Resume == nil && p.ResumeOriginalName == nil && p.ProfilePhoto == nil
}

// Apply merges the patch into u in memory.
func (p UserPatch) Apply(u *User) {
	setIf(&u.Fullname, p.Fullname)
	setIf(&u.Email, p.Email)
	setIf(&u.PhoneNumber, p.PhoneNumber)
	setIf(&u.Password, p.Password)
	setIf(&u.Profile.Bio, p.Bio)
	if p.Skills != nil {
		u.Profile.Skills = p.Skills
	}
	setIf(&u.Profile.Resume, p.Resume)
	setIf(&u.Profile.ResumeOriginalName, p.ResumeOriginalName)
	setIf(&u.Profile.ProfilePhoto, p.ProfilePhoto)
}

// Columns returns the patch as a column map for a single UPDATE statement.
func (p UserPatch) Columns() map[string]any {
	cols := map[string]any{}
	putIf(cols, "fullname", p.Fullname)
	putIf(cols, "email", p.Email)
	putIf(cols, "phone_number", p.PhoneNumber)
	putIf(cols, "password", p.Password)
	putIf(cols, "profile_bio", p.Bio)
	if p.Skills != nil {
		cols["profile_skills"] = p.Skills
	}
	putIf(cols, "profile_resume", p.Resume)
	putIf(cols, "profile_resume_original_name", p.ResumeOriginalName)
	putIf(cols, "profile_profile_photo", p.ProfilePhoto)
	return cols
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func putIf(cols map[string]any, name string, v *string) {
	if v != nil {
		cols[name] = *v
	}
}
