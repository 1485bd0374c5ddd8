package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"solar-forecaster/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках используем ключи JSON, а не имена полей структуры
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// invalidKeys возвращает ключи числовых признаков, которые не являются числом
func invalidKeys(features models.FeatureVector) ([]string, error) {
	err := validate.Struct(features)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	keys := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		keys = append(keys, fe.Field())
	}
	return keys, nil
}

// validateFeatures отклоняет вектор с NaN/Inf до отправки запроса
func validateFeatures(features models.FeatureVector) error {
	keys, err := invalidKeys(features)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	msgs := make([]string, len(keys))
	for i, key := range keys {
		msgs[i] = fmt.Sprintf("%s must be a number", Label(key))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
