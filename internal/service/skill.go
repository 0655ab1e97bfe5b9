package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/events"
)

type SkillStore interface {
	CreateSkillIfNotExists(ctx context.Context, s *models.Skill) error
	ListSkills(ctx context.Context) ([]models.Skill, error)
	CreateOnboarding(ctx context.Context, o *models.DeveloperOnboarding, skills []uuid.UUID, skillsUsed [][]uuid.UUID) error
	GetOnboarding(ctx context.Context, id uuid.UUID) (*models.DeveloperOnboarding, error)
}

type SkillService struct {
	Repo   SkillStore
	Events events.Publisher
}

type ExperienceInput struct {
	CompanyName string
	TechStack   string
	SkillsUsed  []uuid.UUID
	TimePeriod  string
}

type EducationInput struct {
	DegreeName string
	SchoolName string
	TimePeriod string
}

type OnboardingInput struct {
	FirstName               string
	LastName                string
	PhoneNumber             string
	Email                   string
	Skills                  []uuid.UUID
	ProfessionalExperiences []ExperienceInput
	EducationalExperiences  []EducationInput
}

func (s *SkillService) CreateSkill(ctx context.Context, name string) (*models.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	sk := &models.Skill{Name: name}
	if err := s.Repo.CreateSkillIfNotExists(ctx, sk); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("skill %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return sk, nil
}

func (s *SkillService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.Repo.ListSkills(ctx)
}

// required takes name, value pairs.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return invalid("%s is required", pairs[i])
		}
	}
	return nil
}

func (in OnboardingInput) validate() error {
	if err := required(
		"firstName", in.FirstName,
		"lastName", in.LastName,
		"phoneNumber", in.PhoneNumber,
	); err != nil {
		return err
	}
	if !validEmail(normalizeEmail(in.Email)) {
		return invalid("email is invalid")
	}
	for _, e := range in.ProfessionalExperiences {
		if err := required(
			"companyName", e.CompanyName,
			"techStack", e.TechStack,
			"timePeriod", e.TimePeriod,
		); err != nil {
			return err
		}
	}
	for _, e := range in.EducationalExperiences {
		if err := required(
			"degreeName", e.DegreeName,
			"schoolName", e.SchoolName,
			"timePeriod", e.TimePeriod,
		); err != nil {
			return err
		}
	}
	return nil
}

// Onboard stores the developer profile of accountID. Every referenced skill
// must already exist.
func (s *SkillService) Onboard(ctx context.Context, accountID uuid.UUID, in OnboardingInput) (*models.DeveloperOnboarding, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	o := &models.DeveloperOnboarding{
		AccountID:   accountID,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Email:       normalizeEmail(in.Email),
	}
	used := make([][]uuid.UUID, len(in.ProfessionalExperiences))
	for i, e := range in.ProfessionalExperiences {
		o.ProfessionalExperiences = append(o.ProfessionalExperiences, models.ProfessionalExperience{
			CompanyName: e.CompanyName,
			TechStack:   e.TechStack,
			TimePeriod:  e.TimePeriod,
		})
		used[i] = e.SkillsUsed
	}
	for _, e := range in.EducationalExperiences {
		o.EducationalExperiences = append(o.EducationalExperiences, models.EducationalExperience{
			DegreeName: e.DegreeName,
			SchoolName: e.SchoolName,
			TimePeriod: e.TimePeriod,
		})
	}

	if err := s.Repo.CreateOnboarding(ctx, o, in.Skills, used); err != nil {
		switch {
		case errors.Is(err, repo.ErrUnknownSkills):
			return nil, invalid("invalid skills provided")
		case errors.Is(err, repo.ErrAlreadyExists), errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("onboarding email %w", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create onboarding: %w", err)
	}

	publish(ctx, s.Events, events.TopicAccounts, accountID.String(), events.New(events.DeveloperOnboarded, map[string]any{
		"accountId":    accountID,
		"onboardingId": o.ID,
	}))
	return o, nil
}

func (s *SkillService) GetOnboarding(ctx context.Context, id uuid.UUID) (*models.DeveloperOnboarding, error) {
	o, err := s.Repo.GetOnboarding(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("onboarding %w", ErrNotFound)
		}
		return nil, err
	}
	return o, nil
}
