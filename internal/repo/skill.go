package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) CreateSkillIfNotExists(ctx context.Context, s *models.Skill) error {
	tx := r.DB.WithContext(ctx).Where("name = ?", s.Name).FirstOrCreate(s)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *GormRepo) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func resolveSkills(ids []uuid.UUID, byID map[uuid.UUID]models.Skill) []models.Skill {
	ids = uniqueIDs(ids)
	out := make([]models.Skill, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out
}

// CreateOnboarding saves the profile with its experiences. skills and
// skillsUsed are referenced by id; any id not stored yields ErrUnknownSkills
// and nothing is written.
func (r *GormRepo) CreateOnboarding(ctx context.Context, o *models.DeveloperOnboarding, skills []uuid.UUID, skillsUsed [][]uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := append([]uuid.UUID{}, skills...)
		for _, ids := range skillsUsed {
			all = append(all, ids...)
		}
		all = uniqueIDs(all)

		byID := make(map[uuid.UUID]models.Skill, len(all))
		if len(all) > 0 {
			var found []models.Skill
			if err := tx.Where("id IN ?", all).Find(&found).Error; err != nil {
				return err
			}
			for _, s := range found {
				byID[s.ID] = s
			}
		}
		if len(byID) != len(all) {
			return ErrUnknownSkills
		}

		var taken int64
		if err := tx.Model(&models.DeveloperOnboarding{}).Where("email = ?", o.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrAlreadyExists
		}

		o.Skills = resolveSkills(skills, byID)
		for i := range o.ProfessionalExperiences {
			var used []uuid.UUID
			if i < len(skillsUsed) {
				used = skillsUsed[i]
			}
			o.ProfessionalExperiences[i].SkillsUsed = resolveSkills(used, byID)
		}

		return tx.Create(o).Error
	})
}

func (r *GormRepo) GetOnboarding(ctx context.Context, id uuid.UUID) (*models.DeveloperOnboarding, error) {
	var o models.DeveloperOnboarding
	if err := r.DB.WithContext(ctx).
		Preload("Skills").
		Preload("ProfessionalExperiences.SkillsUsed").
		Preload("EducationalExperiences").
		First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
