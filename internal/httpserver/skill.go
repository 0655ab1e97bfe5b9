package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type SkillHTTP struct {
	Svc *service.SkillService
}

func (h *SkillHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "skill.create")

	var req transport.CreateSkillRequest
	if err := bindAndValidate(c, l, "create_skill", &req); err != nil {
		return err
	}
	sk, err := h.Svc.CreateSkill(ctx, req.Name)
	if err != nil {
		return fail(l, "create_skill", err)
	}
	return c.JSON(http.StatusOK, sk)
}

func (h *SkillHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "skill.list")

	skills, err := h.Svc.ListSkills(ctx)
	if err != nil {
		return fail(l, "list_skills", err)
	}
	return c.JSON(http.StatusOK, skills)
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (h *SkillHTTP) Onboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "developer.onboarding")

	accountID, err := principalID(c)
	if err != nil {
		return err
	}

	var req transport.OnboardingRequest
	if err := bindAndValidate(c, l, "onboarding", &req); err != nil {
		return err
	}

	skills, err := parseIDs(req.Skills)
	if err != nil {
		return badRequest(l, "onboarding", "skills must be uuids", err)
	}
	in := service.OnboardingInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Skills:      skills,
	}
	for _, e := range req.ProfessionalExperiences {
		used, err := parseIDs(e.SkillsUsed)
		if err != nil {
			return badRequest(l, "onboarding", "skillsUsed must be uuids", err)
		}
		in.ProfessionalExperiences = append(in.ProfessionalExperiences, service.ExperienceInput{
			CompanyName: e.CompanyName,
			TechStack:   e.TechStack,
			SkillsUsed:  used,
			TimePeriod:  e.TimePeriod,
		})
	}
	for _, e := range req.EducationalExperiences {
		in.EducationalExperiences = append(in.EducationalExperiences, service.EducationInput{
			DegreeName: e.DegreeName,
			SchoolName: e.SchoolName,
			TimePeriod: e.TimePeriod,
		})
	}

	o, err := h.Svc.Onboard(ctx, accountID, in)
	if err != nil {
		return fail(l, "onboarding", err)
	}
	return c.JSON(http.StatusOK, transport.OnboardingResponse{
		Message:    "developer onboarded successfully",
		Onboarding: o,
	})
}

func (h *SkillHTTP) GetOnboarding(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "developer.onboarding.get")

	id, err := uuidParam(c, l, "get_onboarding", "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.GetOnboarding(ctx, id)
	if err != nil {
		return fail(l, "get_onboarding", err)
	}
	return c.JSON(http.StatusOK, o)
}
