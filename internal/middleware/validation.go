package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

const (
	studentIndexTag  = "student_index"
	studentIndexText = "{0} must be 1-10 letters, digits, '/' or '-'"
	requiredText     = "{0} is required"
)

var (
	translator ut.Translator
	setupOnce  sync.Once
)

// SetupValidation registers field names, custom rules and English messages
// on gin's validator. It is safe to call more than once.
func SetupValidation() ut.Translator {
	setupOnce.Do(func() {
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")

		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = en_translations.RegisterDefaultTranslations(validate, translator)

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		_ = validate.RegisterValidation(studentIndexTag, func(fl validator.FieldLevel) bool {
			return validation.IsValidStudentIndex(fl.Field().String())
		})
		registerTranslation(validate, studentIndexTag, studentIndexText, false)
		registerTranslation(validate, "required", requiredText, true)
		registerTranslation(validate, "required_with", requiredText, true)
	})
	return translator
}

func registerTranslation(validate *validator.Validate, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidationErrorDetail converts a binding error into an error detail with
// one message per offending field.
func ValidationErrorDetail(err error) *dto.ErrorDetail {
	trans := SetupValidation()

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format").
			WithDetails(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(trans)
	}
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(fields)
	if len(verrs) == 1 {
		detail = detail.WithField(verrs[0].Field())
		detail.Message = fields[verrs[0].Field()]
	}
	return detail
}

// HandleBindError writes a 400 response for a failed ShouldBind call
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(ValidationErrorDetail(err)))
}
