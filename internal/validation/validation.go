package validation

import (
	"reflect"
	"sort"
	"strings"

	"prep_admin_backend/internal/model"

	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	vi_translations "github.com/go-playground/validator/v10/translations/vi"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag   = "notblank"
	courseTypeTag = "course_type"
	userRoleTag   = "user_role"
)

func init() {
	Validate = validator.New()

	_vi := vi.New()
	uni := ut.New(_vi, _vi)
	Translator, _ = uni.GetTranslator("vi")
	_ = vi_translations.RegisterDefaultTranslations(Validate, Translator)

	// report JSON names, the ones the front end knows
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(courseTypeTag, courseTypeValidation)
	_ = Validate.RegisterValidation(userRoleTag, userRoleValidation)

	registerCustomTranslations(notBlankTag, courseTypeTag, userRoleTag)
}

// registerCustomTranslations attaches Vietnamese messages to the custom tags.
// The register func is a no-op because the messages are produced directly.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " không được để trống"
	case courseTypeTag:
		return fe.Field() + " phải là TOEIC, IELTS hoặc APTIS"
	case userRoleTag:
		return fe.Field() + " phải là admin, teacher hoặc student"
	default:
		return fe.Error()
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func courseTypeValidation(fl validator.FieldLevel) bool {
	return model.CourseType(fl.Field().String()).Valid()
}

func userRoleValidation(fl validator.FieldLevel) bool {
	return model.UserRole(fl.Field().String()).Valid()
}

// Struct validates v and returns translated messages keyed by field name, or
// nil when v is valid.
func Struct(v interface{}) map[string]string {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fe.Translate(Translator)
		}
	}
	return out
}

// First returns the message of the alphabetically first field, for screens
// that show a single banner.
func First(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fields[keys[0]]
}
