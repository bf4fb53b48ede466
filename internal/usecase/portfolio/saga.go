package portfolio

import (
	"context"

	"github.com/sirupsen/logrus"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga накапливает компенсирующие действия для уже выполненных шагов записи.
type saga struct {
	log   *logrus.Entry
	steps []compensation
}

func newSaga(log *logrus.Entry) *saga {
	return &saga{log: log}
}

// onFailure регистрирует действие, отменяющее только что выполненный шаг.
func (s *saga) onFailure(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// compensate выполняет действия в обратном порядке. Отмена клиентского контекста
// не прерывает откат.
func (s *saga) compensate(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			s.log.WithError(err).WithField("step", step.name).Error("compensation failed")
			continue
		}
		s.log.WithField("step", step.name).Warn("compensated")
	}
	s.steps = nil
}
