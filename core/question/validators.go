package question

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/doctorprep/backend/core"
)

var (
	labelTag  = "answerlabel"
	labelText = "must be one of A, B, C or D"

	difficultyTag  = "difficulty"
	difficultyText = "invalid difficulty"

	optionsTag  = "answeroptions"
	optionsText = "options must provide text for each of A, B, C and D"

	correctInOptionsTag  = "correctinoptions"
	correctInOptionsText = "the correct answer must be one of the provided options"
)

// InitValidators registers this package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(labelTag, labelValidation)
	core.RegisterCustomTranslation(validate, translator, labelTag, labelText)

	_ = validate.RegisterValidation(difficultyTag, difficultyValidation)
	core.RegisterCustomTranslation(validate, translator, difficultyTag, difficultyText)

	validate.RegisterStructValidation(questionStructValidation, NewQuestion{})
	validate.RegisterStructValidation(questionStructValidation, UpdateQuestion{})
	core.RegisterCustomTranslation(validate, translator, optionsTag, optionsText)
	core.RegisterCustomTranslation(validate, translator, correctInOptionsTag, correctInOptionsText)
}

// labelValidation checks that the value is one of the answer labels A-D.
func labelValidation(fl validator.FieldLevel) bool {
	return ValidLabel(fl.Field().String())
}

// difficultyValidation checks that the value is one of Difficulties.
func difficultyValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, d := range Difficulties {
		if d == val {
			return true
		}
	}
	return false
}

// questionStructValidation checks options completeness and that the correct
// answer resolves to an option.
func questionStructValidation(sl validator.StructLevel) {
	var options map[string]string
	var correct string

	switch q := sl.Current().Interface().(type) {
	case NewQuestion:
		options, correct = q.Options, q.CorrectAnswer
	case UpdateQuestion:
		options, correct = q.Options, q.CorrectAnswer
	}
	if options == nil {
		return // field-level "required" already reported
	}

	validateOptions(options, correct, sl)
}

func validateOptions(options map[string]string, correct string, sl validator.StructLevel) {
	if len(options) != len(Labels) {
		sl.ReportError(options, "options", "Options", optionsTag, "")
		return
	}
	for _, label := range Labels {
		if text, ok := options[label]; !ok || text == "" {
			sl.ReportError(options, "options", "Options", optionsTag, "")
			return
		}
	}
	if correct != "" {
		if _, ok := options[correct]; !ok {
			sl.ReportError(correct, "correct_answer", "CorrectAnswer", correctInOptionsTag, "")
		}
	}
}
