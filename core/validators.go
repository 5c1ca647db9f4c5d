package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

var (
	// custom validation tags & texts
	requiredTag     = "required"
	requiredWithTag = "required_with"

	texts = map[string]map[string]string{
		"en": {
			requiredTag: "this field is required",
		},
		"ja": {
			requiredTag: "この項目は必須です",
		},
	}
)

// NewTranslator returns the translator for `locale` (en | ja). Unknown locales fall back to en.
func NewTranslator(locale string) ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en, ja.New())
	if translator, found := uni.GetTranslator(CleanString(locale, true)); found {
		return translator
	}
	translator, _ := uni.GetTranslator("en")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	if translator.Locale() == "ja" {
		_ = ja_translations.RegisterDefaultTranslations(validate, translator)
	} else {
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	}

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterCustomTranslation(validate, translator, requiredTag, Text(translator, requiredTag), true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, Text(translator, requiredTag), true)
}

// Text returns the message registered for `tag` in the translator's locale.
func Text(translator ut.Translator, tag string) string {
	if msgs, ok := texts[translator.Locale()]; ok {
		if msg, ok := msgs[tag]; ok {
			return msg
		}
	}
	return texts["en"][tag]
}

// RegisterTexts adds (or overrides) custom validation messages for a locale.
func RegisterTexts(locale string, msgs map[string]string) {
	if _, ok := texts[locale]; !ok {
		texts[locale] = make(map[string]string, len(msgs))
	}
	for tag, msg := range msgs {
		texts[locale][tag] = msg
	}
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
