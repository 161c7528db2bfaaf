package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a form struct and returns the first failure as a
// user-facing message.
func ValidateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fmt.Errorf("%s %s", fieldLabel(ve[0]), formatValidationError(ve[0]))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func fieldLabel(fe validator.FieldError) string {
	if label, ok := fieldLabels[fe.Field()]; ok {
		return label
	}
	return fe.Field()
}

var fieldLabels = map[string]string{
	"UserName":          "User Name",
	"Password":          "Password",
	"Password2":         "Confirm Password",
	"Email":             "Email",
	"Title":             "Title",
	"FeatureImgURL":     "Feature image URL",
	"OriginalSourceURL": "Original source URL",
	"SectorID":          "Sector",
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// LoginForm is the body of POST /login.
type LoginForm struct {
	UserName string `validate:"required,max=255"`
	Password string `validate:"required"`
}

// RegisterForm is the body of POST /register.
type RegisterForm struct {
	UserName  string `validate:"required,max=255"`
	Email     string `validate:"omitempty,email,max=255"`
	Password  string `validate:"required"`
	Password2 string
}

// ProjectForm is the body of the add and edit project forms.
type ProjectForm struct {
	ID                int
	Title             string `validate:"required,max=255"`
	FeatureImgURL     string `validate:"omitempty,url,max=255"`
	SummaryShort      string
	IntroShort        string
	Impact            string
	OriginalSourceURL string `validate:"omitempty,url,max=255"`
	SectorID          int    `validate:"gt=0"`
}

func parseLoginForm(form url.Values) LoginForm {
	return LoginForm{
		UserName: form.Get("userName"),
		Password: form.Get("password"),
	}
}

func parseRegisterForm(form url.Values) RegisterForm {
	return RegisterForm{
		UserName:  form.Get("userName"),
		Email:     strings.TrimSpace(form.Get("email")),
		Password:  form.Get("password"),
		Password2: form.Get("password2"),
	}
}

// parseProjectForm reads a project form. Non-numeric ids are left at zero and caught
// by validation.
func parseProjectForm(form url.Values) ProjectForm {
	id, _ := strconv.Atoi(form.Get("id"))
	sectorID, _ := strconv.Atoi(form.Get("sector_id"))
	return ProjectForm{
		ID:                id,
		Title:             strings.TrimSpace(form.Get("title")),
		FeatureImgURL:     strings.TrimSpace(form.Get("feature_img_url")),
		SummaryShort:      form.Get("summary_short"),
		IntroShort:        form.Get("intro_short"),
		Impact:            form.Get("impact"),
		OriginalSourceURL: strings.TrimSpace(form.Get("original_source_url")),
		SectorID:          sectorID,
	}
}

func (f ProjectForm) toModel() *models.Project {
	return &models.Project{
		ID:                f.ID,
		Title:             f.Title,
		FeatureImgURL:     f.FeatureImgURL,
		SummaryShort:      f.SummaryShort,
		IntroShort:        f.IntroShort,
		Impact:            f.Impact,
		OriginalSourceURL: f.OriginalSourceURL,
		SectorID:          f.SectorID,
	}
}
