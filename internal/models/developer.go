package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Skill struct {
	ID   uuid.UUID `gorm:"primaryKey"             json:"id"`
	Name string    `gorm:"uniqueIndex;not null"   json:"name"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type DeveloperOnboarding struct {
	ID                      uuid.UUID                `gorm:"primaryKey"                  json:"id"`
	AccountID               uuid.UUID                `gorm:"index;not null"              json:"accountId"`
	FirstName               string                   `gorm:"not null"                    json:"firstName"`
	LastName                string                   `gorm:"not null"                    json:"lastName"`
	PhoneNumber             string                   `gorm:"not null"                    json:"phoneNumber"`
	Email                   string                   `gorm:"uniqueIndex;not null"        json:"email"`
	Skills                  []Skill                  `gorm:"many2many:onboarding_skills" json:"skills"`
	ProfessionalExperiences []ProfessionalExperience `gorm:"foreignKey:OnboardingID"     json:"professionalExperiences"`
	EducationalExperiences  []EducationalExperience  `gorm:"foreignKey:OnboardingID"     json:"educationalExperiences"`
	CreatedAt               time.Time                `                                   json:"createdAt"`
}

func (d *DeveloperOnboarding) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type ProfessionalExperience struct {
	ID           uuid.UUID `gorm:"primaryKey"                  json:"id"`
	OnboardingID uuid.UUID `gorm:"index;not null"              json:"-"`
	CompanyName  string    `gorm:"not null"                    json:"companyName"`
	TechStack    string    `gorm:"not null"                    json:"techStack"`
	SkillsUsed   []Skill   `gorm:"many2many:experience_skills" json:"skillsUsed"`
	TimePeriod   string    `gorm:"not null"                    json:"timePeriod"`
}

func (p *ProfessionalExperience) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type EducationalExperience struct {
	ID           uuid.UUID `gorm:"primaryKey"     json:"id"`
	OnboardingID uuid.UUID `gorm:"index;not null" json:"-"`
	DegreeName   string    `gorm:"not null"       json:"degreeName"`
	SchoolName   string    `gorm:"not null"       json:"schoolName"`
	TimePeriod   string    `gorm:"not null"       json:"timePeriod"`
}

func (e *EducationalExperience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
