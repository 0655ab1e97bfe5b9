package models

import "gorm.io/gorm"

func All() []any {
	return []any{
		&Account{},
		&Category{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Skill{},
		&DeveloperOnboarding{},
		&ProfessionalExperience{},
		&EducationalExperience{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
