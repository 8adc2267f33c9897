package validator

import (
	"errors"
	"fmt"
	"strings"

	"evshare/pkg/logger"
	"evshare/pkg/model"

	"github.com/go-playground/validator/v10"
)

// Member shares may legitimately sum below 100 (unallocated equity held by
// the fund), but never above it.
const maxTotalShares = 100.0

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type GroupValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewGroupValidator(log *logger.Logger) *GroupValidator {
	return &GroupValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *GroupValidator) Validate(group *model.OwnershipGroup) error {
	if err := v.validate.Struct(group); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.ValidateMembers(group.Members)
}

// ValidateMembers checks the cross-member invariants: unique user IDs and a
// share total that never exceeds 100.
func (v *GroupValidator) ValidateMembers(members []model.GroupMember) error {
	seen := make(map[string]bool, len(members))
	var total float64
	for _, m := range members {
		if seen[m.UserID] {
			return ValidationErrors{
				ValidationError{
					Field:   "Members",
					Message: fmt.Sprintf("duplicate member %s", m.UserID),
				},
			}
		}
		seen[m.UserID] = true
		total += m.SharePercent
	}

	if total > maxTotalShares {
		return ValidationErrors{
			ValidationError{
				Field:   "Members",
				Message: fmt.Sprintf("member shares sum to %.2f%%, exceeding 100%%", total),
			},
		}
	}

	return nil
}

func (v *GroupValidator) ValidateUpdate(update *model.OwnershipGroupUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *GroupValidator) ValidateMember(member *model.GroupMember) error {
	if err := v.validate.Struct(member); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *GroupValidator) ValidateMemberUpdate(update *model.GroupMemberUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *GroupValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA time zone", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
