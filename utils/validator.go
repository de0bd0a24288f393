package utils

import (
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
)

var (
	validate *gpvalidator.Validate
	mut      sync.Mutex
)

// Validator returns the shared go-playground validator.
func Validator() *gpvalidator.Validate {
	mut.Lock()
	defer mut.Unlock()
	if validate == nil {
		validate = gpvalidator.New(gpvalidator.WithRequiredStructEnabled())
	}
	return validate
}

func ValidateStruct(s any) error {
	return Validator().Struct(s)
}
