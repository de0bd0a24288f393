package dto

import (
	"errors"
	"strings"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/princinho/storefront/apperr"
	"github.com/princinho/storefront/utils"
)

type ReviewInput struct {
	Comment       string `json:"comment" validate:"required"`
	Rating        *int   `json:"rating" validate:"required,min=1,max=5"`
	ReviewerName  string `json:"reviewerName" validate:"required"`
	ReviewerEmail string `json:"reviewerEmail" validate:"required,email"`
}

type AddReviewRequest struct {
	ProductID string      `json:"productId" validate:"required"`
	Review    ReviewInput `json:"review"`
	Token     string      `json:"token,omitempty"`
}

// ReviewPatch holds the fields of an edit; nil fields are left untouched.
type ReviewPatch struct {
	Comment       *string `json:"comment,omitempty" validate:"omitempty,min=1"`
	Rating        *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	ReviewerName  *string `json:"reviewerName,omitempty" validate:"omitempty,min=1"`
	ReviewerEmail *string `json:"reviewerEmail,omitempty" validate:"omitempty,email"`
}

// Fields returns the supplied fields keyed by document field name.
func (p ReviewPatch) Fields() map[string]any {
	set := map[string]any{}
	if p.Comment != nil {
		set["comment"] = *p.Comment
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	if p.ReviewerName != nil {
		set["reviewerName"] = *p.ReviewerName
	}
	if p.ReviewerEmail != nil {
		set["reviewerEmail"] = *p.ReviewerEmail
	}
	return set
}

type EditReviewRequest struct {
	ProductID string       `json:"productId" validate:"required"`
	ReviewID  string       `json:"reviewId" validate:"required"`
	Review    *ReviewPatch `json:"review" validate:"required"`
}

type DeleteReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	ReviewID  string `json:"reviewId" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Validate checks a request once at the boundary and reports every failing
// field as a validation error.
func Validate(req any) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}
	var verrs gpvalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.Validation, "invalid request", err)
	}

	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, reason(fe))
	}
	return apperr.NewValidation(strings.Join(reasons, "; "))
}

func reason(fe gpvalidator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "max":
		switch {
		case field == "rating":
			return "rating must be between 1 and 5"
		case fe.Tag() == "min" && fe.Param() == "1":
			return field + " must not be empty"
		case fe.Tag() == "min":
			return field + " must be at least " + fe.Param() + " characters"
		default:
			return field + " must be at most " + fe.Param() + " characters"
		}
	}
	return field + " is invalid"
}

func jsonName(goName string) string {
	switch goName {
	case "ProductID":
		return "productId"
	case "ReviewID":
		return "reviewId"
	case "Review":
		return "review"
	}
	if goName == "" {
		return goName
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}
