// Package validation checks transport-level request payloads before they
// reach the domain layer.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

// Validation constants
var (
	MaxTitleLength = 200
	MaxNoteLength  = 2000
	MaxStepsLength = 10000
)

func init() {
	validate = validator.New()
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest represents a credential check
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GraphRequest represents a request to create or rename a graph
type GraphRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// NodeRequest represents a request to create a node
type NodeRequest struct {
	GraphID int64  `json:"graph_id" validate:"required,min=1"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
}

// EdgeRequest represents a request to create an edge
type EdgeRequest struct {
	FromNodeID int64  `json:"from_node_id" validate:"required,min=1"`
	ToNodeID   int64  `json:"to_node_id" validate:"required,min=1"`
	Polarity   string `json:"polarity" validate:"omitempty,oneof=positive neutral negative"`
	Note       string `json:"note" validate:"omitempty,max=2000"`
}

// EdgeUpdateRequest represents a partial edge update. Absent fields decode
// to nil and leave the stored value unchanged.
type EdgeUpdateRequest struct {
	Polarity *string `json:"polarity" validate:"omitempty,oneof=positive neutral negative"`
	Note     *string `json:"note" validate:"omitempty,max=2000"`
	Color    *string `json:"color" validate:"omitempty,max=50"`
	Label    *string `json:"label" validate:"omitempty,max=200"`
}

// TechniqueRequest represents a request to attach a technique to a node
type TechniqueRequest struct {
	VideoURL string `json:"video_url" validate:"omitempty,url,max=2048"`
	Steps    string `json:"steps" validate:"omitempty,max=10000"`
}

// TechniqueUpdateRequest represents a partial technique update
type TechniqueUpdateRequest struct {
	VideoURL *string `json:"video_url" validate:"omitempty,url,max=2048"`
	Steps    *string `json:"steps" validate:"omitempty,max=10000"`
}

// Validate checks any of the request structs above against its tags.
func Validate(req any) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "email":
			return fmt.Errorf("%s: must be a valid email address", field)
		case "url":
			return fmt.Errorf("%s: must be a valid URL", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
