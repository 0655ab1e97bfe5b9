package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/marketplace/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	Message string          `json:"message"`
	Account *models.Account `json:"account"`
}

type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateProductRequest struct {
	Title        string          `json:"title"        validate:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Availability *bool           `json:"availability"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

// AddToCartRequest.UserID is optional; when sent it must be the caller.
type AddToCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"min=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type TotalQuantityResponse struct {
	TotalQuantity int64 `json:"totalQuantity"`
}

type PlaceOrderResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

type CreateSkillRequest struct {
	Name string `json:"name" validate:"required"`
}

type ProfessionalExperience struct {
	CompanyName string   `json:"companyName" validate:"required"`
	TechStack   string   `json:"techStack"   validate:"required"`
	SkillsUsed  []string `json:"skillsUsed"`
	TimePeriod  string   `json:"timePeriod"  validate:"required"`
}

type EducationalExperience struct {
	DegreeName string `json:"degreeName" validate:"required"`
	SchoolName string `json:"schoolName" validate:"required"`
	TimePeriod string `json:"timePeriod" validate:"required"`
}

type OnboardingRequest struct {
	FirstName               string                   `json:"firstName"               validate:"required"`
	LastName                string                   `json:"lastName"                validate:"required"`
	PhoneNumber             string                   `json:"phoneNumber"             validate:"required"`
	Email                   string                   `json:"email"                   validate:"required,email"`
	Skills                  []string                 `json:"skills"`
	ProfessionalExperiences []ProfessionalExperience `json:"professionalExperiences" validate:"dive"`
	EducationalExperiences  []EducationalExperience  `json:"educationalExperiences"  validate:"dive"`
}

type OnboardingResponse struct {
	Message    string                      `json:"message"`
	Onboarding *models.DeveloperOnboarding `json:"onboarding"`
}
