// internal/validator/validator.go
package validator

import (
	"controle-gastos/internal/domain"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired     = "O campo é obrigatório!"
	MsgTypeMismatch = "O tipo de dado informado não corresponde ao tipo de dado esperado"
	MsgDateFormat   = "A data deve estar no formato YYYY-MM-DD"
	MsgCategory     = "A categoria informada não existe!"
	MsgBlank        = "Este campo não pode estar em branco."
	MsgTooLong      = "Certifique-se de que este campo não tenha mais de 120 caracteres."
)

// Поля, без которых запись не создаётся
var requiredFields = []string{"descricao", "valor", "data"}

var (
	Validate *validator.Validate

	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func init() {
	Validate = validator.New()

	// Дата строго в формате "2022-01-25"
	_ = Validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return ValidateDate(fl.Field().String())
	})

	_ = Validate.RegisterValidation("categoria", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})

	// Регистрируем валидацию: строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ValidateDate reports whether text is a real calendar date in YYYY-MM-DD form.
func ValidateDate(text string) bool {
	if !dateRe.MatchString(text) {
		return false
	}
	_, err := time.Parse(domain.DateLayout, text)
	return err == nil
}

// RequiredFields returns how many required keys are absent from payload and
// a message per absent key. Present but blank values are not reported.
func RequiredFields(payload map[string]any) (int, map[string]string) {
	missing := make(map[string]string)
	for _, f := range requiredFields {
		if _, ok := payload[f]; !ok {
			missing[f] = MsgRequired
		}
	}
	return len(missing), missing
}

// ValueErrors checks the values of an already decoded payload.
func ValueErrors(payload map[string]any) map[string]string {
	errs := make(map[string]string)

	if v, ok := payload["descricao"]; ok {
		s, isStr := v.(string)
		switch {
		case !isStr:
			errs["descricao"] = MsgTypeMismatch
		case Validate.Var(s, "notblank") != nil:
			errs["descricao"] = MsgBlank
		case Validate.Var(s, "max=120") != nil:
			errs["descricao"] = MsgTooLong
		}
	}

	if v, ok := payload["valor"]; ok {
		if _, ok := ParseAmount(v); !ok {
			errs["valor"] = MsgTypeMismatch
		}
	}

	if v, ok := payload["data"]; ok {
		s, _ := v.(string)
		if Validate.Var(s, "isodate") != nil {
			errs["data"] = MsgDateFormat
		}
	}

	if v, ok := payload["categoria"]; ok {
		s, _ := v.(string)
		if Validate.Var(s, "categoria") != nil {
			errs["categoria"] = MsgCategory
		}
	}

	return errs
}

// ParseAmount coerces a JSON value to a finite float: numbers as is, strings
// when they parse as a number. NaN and ±Inf are rejected.
func ParseAmount(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

// finite: json не умеет кодировать NaN и Inf
func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
