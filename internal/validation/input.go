package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/averarp/community-backend/internal/models"
)

// Константы валидации
const (
	MaxReasonLength        = 500
	MaxNoteLength          = 2000
	MaxDetailsLength       = 2000
	MaxFieldValueLength    = 4000
	MaxUserIDLength        = 32
	MaxApplicationIDLength = 64
)

// ValidateNonEmpty проверяет, что строка не пустая (после trim).
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateUserID проверяет Discord snowflake id: только цифры.
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("id пользователя обязателен")
	}
	if len(userID) > MaxUserIDLength {
		return fmt.Errorf("id пользователя слишком длинный")
	}
	for _, r := range userID {
		if r < '0' || r > '9' {
			return fmt.Errorf("id пользователя должен состоять из цифр")
		}
	}
	return nil
}

// ValidateSeverity проверяет серьёзность предупреждения.
func ValidateSeverity(severity string) error {
	if !models.ValidSeverity(severity) {
		return fmt.Errorf("неизвестная серьёзность %q (допустимы low, medium, high)", severity)
	}
	return nil
}

// ValidateReason проверяет причину (warning, ban, unban, removal).
func ValidateReason(fieldName, reason string) error {
	if err := ValidateNonEmpty(fieldName, reason); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(reason), 0, MaxReasonLength)
}

// ValidateApplicationFields проверяет анкету заявки против объявленной схемы:
// все обязательные поля присутствуют и непусты, посторонних полей нет.
func ValidateApplicationFields(appType string, fields map[string]string) error {
	if !models.ValidApplicationType(appType) {
		return fmt.Errorf("неизвестный тип заявки %q", appType)
	}

	schema := models.ApplicationSchema(appType)
	declared := make(map[string]bool, len(schema))
	for _, name := range schema {
		declared[name] = true
		if strings.TrimSpace(fields[name]) == "" {
			return fmt.Errorf("поле анкеты %q обязательно для заявки типа %s", name, appType)
		}
	}

	for name, value := range fields {
		if !declared[name] {
			return fmt.Errorf("поле %q не объявлено в схеме заявки типа %s", name, appType)
		}
		if err := ValidateLength("поле "+name, value, 0, MaxFieldValueLength); err != nil {
			return err
		}
	}
	return nil
}
