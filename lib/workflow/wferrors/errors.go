package wferrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"recruit-flow-backend/models"
)

// Ошибки валидации перехода. Возвращаются вызывающему синхронно,
// автоматических повторов по ним нет

var ErrApplicationNotFound = errors.New("заявка не найдена")

type InvalidTransitionError struct {
	From models.ApplicationStage
	To   models.ApplicationStage
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("переход с этапа %q на этап %q недопустим", e.From, e.To)
}

type MissingFieldsError struct {
	Fields []string
}

func (e MissingFieldsError) Error() string {
	return fmt.Sprintf("не заполнены обязательные поля: %v", strings.Join(e.Fields, ", "))
}

func IsValidation(err error) bool {
	if errors.Is(err, ErrApplicationNotFound) {
		return true
	}
	var invalidTransition InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		return true
	}
	var missingFields MissingFieldsError
	return errors.As(err, &missingFields)
}
