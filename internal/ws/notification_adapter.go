package ws

import (
	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/logger"
)

// Publisher - то, что нужно PortfolioNotifier от хаба.
type Publisher interface {
	Publish(userID uuid.UUID, event string, data any) error
}

// PortfolioNotifier рассылает изменения портфолио открытым сессиям владельца.
// Ошибки доставки только логируются: запрос уже выполнен.
type PortfolioNotifier struct {
	pub Publisher
}

func NewPortfolioNotifier(pub Publisher) *PortfolioNotifier {
	return &PortfolioNotifier{pub: pub}
}

func (n *PortfolioNotifier) PortfolioCreated(userID uuid.UUID, data any) {
	n.publish(userID, EventPortfolioCreated, data)
}

func (n *PortfolioNotifier) PortfolioUpdated(userID uuid.UUID, data any) {
	n.publish(userID, EventPortfolioUpdated, data)
}

func (n *PortfolioNotifier) PortfolioDeleted(userID, portfolioID uuid.UUID) {
	n.publish(userID, EventPortfolioDeleted, map[string]any{"id": portfolioID})
}

func (n *PortfolioNotifier) CompositionSaved(userID uuid.UUID, data any) {
	n.publish(userID, EventCompositionSaved, data)
}

func (n *PortfolioNotifier) publish(userID uuid.UUID, event string, data any) {
	if n == nil || n.pub == nil {
		return
	}
	if err := n.pub.Publish(userID, event, data); err != nil {
		logger.WithComponent("ws").WithError(err).WithField("event", event).Warn("event not delivered")
	}
}
