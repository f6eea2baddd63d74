package lock

import (
	"context"
	"sync"
)

// Именованные блокировки внутри процесса. Ключ - имя задачи или ресурса,
// блокировки независимы: занятый ключ не мешает остальным

var (
	lockMap sync.Map
)

// TryRun - захват без ожидания: либо выполняем сразу, либо пропускаем запуск
func TryRun(ctx context.Context, key string, safeCode func() error) (success bool, err error) {
	if _, loaded := lockMap.LoadOrStore(key, true); loaded {
		return false, nil
	}
	defer lockMap.Delete(key)
	if ctx.Err() != nil {
		return false, nil
	}
	return true, safeCode()
}
