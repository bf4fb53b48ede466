// Package goroutine запускает фоновые горутины с перехватом panic.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/logger"
)

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	log *logrus.Entry
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(log *logrus.Entry) *RecoveryHandler {
	return &RecoveryHandler{log: log}
}

// Recover логирует panic и вызывает onPanic. Вызывается только через defer.
func (rh *RecoveryHandler) Recover(name string, onPanic func()) {
	r := recover()
	if r == nil {
		return
	}
	rh.log.WithFields(logrus.Fields{
		"goroutine": name,
		"stack":     string(debug.Stack()),
	}).Error(fmt.Sprintf("panic: %v", r))
	if onPanic != nil {
		onPanic()
	}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(name string, fn func(), onPanic func()) {
	go func() {
		defer rh.Recover(name, onPanic)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.Recover(name, nil)
		fn(ctx)
	}()
}

// SafeGo запускает горутину с логгером компонента goroutine.
func SafeGo(name string, fn func()) {
	NewRecoveryHandler(logger.WithComponent("goroutine")).SafeGo(name, fn, nil)
}
