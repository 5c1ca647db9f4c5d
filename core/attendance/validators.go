package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shusseki/core"
)

var (
	statusTag   = "status"
	viewModeTag = "viewmode"
)

func init() {
	core.RegisterTexts("en", map[string]string{
		statusTag:   "must be one of present, absent, late or leaveEarly",
		viewModeTag: "must be one of teacher or student",
	})
	core.RegisterTexts("ja", map[string]string{
		statusTag:   "出席・欠席・遅刻・早退のいずれかを指定してください",
		viewModeTag: "teacher または student を指定してください",
	})
}

// InitValidators registers the attendance validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, core.Text(translator, statusTag))

	_ = validate.RegisterValidation(viewModeTag, viewModeValidation)
	core.RegisterCustomTranslation(validate, translator, viewModeTag, core.Text(translator, viewModeTag))
}

// StatusChange is the payload of a status update; Date defaults to the selected date.
type StatusChange struct {
	Status string `json:"status" validate:"required,status"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (sc *StatusChange) Validate(validate *validator.Validate) error {
	sc.Status = core.CleanString(sc.Status)
	sc.Date = core.CleanString(sc.Date)
	return validate.Struct(sc)
}

// StatusAdvance is the payload of a click-to-advance; Date defaults to the selected date.
type StatusAdvance struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (sa *StatusAdvance) Validate(validate *validator.Validate) error {
	sa.Date = core.CleanString(sa.Date)
	return validate.Struct(sa)
}

// PastedText is the payload of a roster import or a seating reorder.
type PastedText struct {
	Text string `json:"text" validate:"required"`
}

func (pt *PastedText) Validate(validate *validator.Validate) error {
	if core.CleanString(pt.Text) == "" {
		pt.Text = ""
	}
	return validate.Struct(pt)
}

// Custom Validators

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).IsValid()
}

func viewModeValidation(fl validator.FieldLevel) bool {
	_, err := ParseViewMode(fl.Field().String())
	return err == nil
}
