// Package worker запускает фоновые задачи сервиса внутри процесса API,
// сейчас это пересборка кеша точек при устаревшем снапшоте станций.
package worker

import (
	"context"
)

// Worker - фоновая задача, управляемая WorkerManager.
// Start блокируется до Stop или отмены ctx, после Stop возвращает nil.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
