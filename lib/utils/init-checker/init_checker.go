package initchecker

import (
	"fmt"
	"reflect"
)

// CheckInit - проверка обязательных зависимостей при сборке обработчика.
// Незаполненная зависимость означает неверный порядок инициализации и фатальна
func CheckInit(pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("CheckInit: нечетное число аргументов")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("CheckInit: первым аргументом пары должно быть имя зависимости")
		}
		value := pairs[i+1]
		if value == nil || isNilValue(value) {
			panic(fmt.Sprintf("зависимость %s не инициализирована", name))
		}
	}
}

func isNilValue(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
