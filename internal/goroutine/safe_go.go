package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/averarp/community-backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic. Используется для
// fire-and-forget отправок в Discord: уведомление не должно уронить
// процесс и не должно влиять на уже применённую мутацию.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverPanic()
		fn(ctx)
	}()
}

func recoverPanic() {
	if r := recover(); r != nil {
		logger.WithComponent("goroutine").Errorf("panic в горутине: %v\n%s", r, debug.Stack())
	}
}
