package question

import (
	"github.com/go-playground/validator/v10"

	"github.com/aeroprep/aeroprep/core"
)

var (
	aircraftTag  = "aircraft"
	aircraftText = "invalid aircraft tag"

	difficultyTag  = "difficulty"
	difficultyText = "invalid difficulty"

	modeTag  = "mode"
	modeText = "invalid exam mode"
)

// InitValidators registers the question domain's custom validators.
func InitValidators() {
	_ = core.Validate.RegisterValidation(aircraftTag, oneOfValidation(Aircraft))
	core.RegisterCustomTranslation(aircraftTag, aircraftText)

	_ = core.Validate.RegisterValidation(difficultyTag, oneOfValidation(Difficulties))
	core.RegisterCustomTranslation(difficultyTag, difficultyText)

	_ = core.Validate.RegisterValidation(modeTag, oneOfValidation(Modes))
	core.RegisterCustomTranslation(modeTag, modeText)
}

func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}
