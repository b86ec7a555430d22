package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_number", isOrderNumber); err != nil {
		return err
	}
	return nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isOrderNumber - номер заказа в том виде, в каком его хранит импорт:
// без ведущего '@' и без пробелов по краям. Слэши запрещены: номер
// попадает в путь маршрутов вложений.
func isOrderNumber(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" || strings.TrimSpace(s) != s {
		return false
	}
	if strings.HasPrefix(s, "@") {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
