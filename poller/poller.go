package poller

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
	"github.com/Bivekich/delikadessa-backend/observability"
	"github.com/Bivekich/delikadessa-backend/registry"
)

type PaymentsGateway interface {
	GetByID(ctx context.Context, paymentID string) (entities.Payment, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Config struct {
	// Interval between poll steps. 60s * 1440 attempts covers the
	// gateway's 24h authorization hold window.
	Interval    time.Duration
	MaxAttempts int
	Clock       Clock
}

// Poller owns payment-status reconciliation for every in-flight payment.
//
// The active marker is the sole mutual-exclusion mechanism: at most one poll
// loop runs per payment ID, and cancellation is expressed purely through
// marker absence, checked before every step. Terminal outcomes additionally
// leave a tombstone in concluded, so whichever of {webhook, poll, backup
// check} observes the terminal state first wins and every later observer
// stays silent. Tombstones live and die with the process, like all state
// here, which keeps the webhook metadata fallback working after a restart.
type Poller struct {
	gateway  PaymentsGateway
	registry *registry.BookingRegistry
	eventBus EventPublisher
	metrics  *observability.Metrics
	cfg      Config

	mu        sync.Mutex
	active    map[string]struct{}
	concluded map[string]struct{}
}

func New(
	gateway PaymentsGateway,
	bookingRegistry *registry.BookingRegistry,
	eventBus EventPublisher,
	metrics *observability.Metrics,
	cfg Config,
) *Poller {
	if gateway == nil {
		panic("missing gateway")
	}
	if bookingRegistry == nil {
		panic("missing booking registry")
	}
	if eventBus == nil {
		panic("missing event bus")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1440
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}

	return &Poller{
		gateway:   gateway,
		registry:  bookingRegistry,
		eventBus:  eventBus,
		metrics:   metrics,
		cfg:       cfg,
		active:    make(map[string]struct{}),
		concluded: make(map[string]struct{}),
	}
}

// Start begins polling the payment. It is a no-op returning false when a
// poll loop already owns the ID. The first status check runs immediately.
func (p *Poller) Start(ctx context.Context, paymentID string, booking entities.Booking) bool {
	p.mu.Lock()
	if _, ok := p.active[paymentID]; ok {
		p.mu.Unlock()
		log.FromContext(ctx).WithField("payment_id", paymentID).Info("Already polling payment")
		return false
	}
	p.active[paymentID] = struct{}{}
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.ActivePolls.Inc()
	}

	go p.run(ctx, paymentID, booking)

	return true
}

// Active reports whether a poll loop currently owns the payment.
func (p *Poller) Active(paymentID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[paymentID]
	return ok
}

// Cancel drops the active marker. The loop notices the absence on its next
// step and exits without any further action. Returns false when no poll
// was active.
func (p *Poller) Cancel(paymentID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeLocked(paymentID)
}

// TryConclude takes the exclusive right to send the terminal notification
// for this payment. The first caller wins; everyone after gets false.
// Any in-flight poll loop is preempted as a side effect.
func (p *Poller) TryConclude(paymentID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, done := p.concluded[paymentID]; done {
		return false
	}
	p.concluded[paymentID] = struct{}{}
	p.removeLocked(paymentID)
	return true
}

// Concluded reports whether a terminal notification already went out for
// this payment during the lifetime of the process.
func (p *Poller) Concluded(paymentID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.concluded[paymentID]
	return ok
}

// claim is the poll loop's variant of TryConclude: it only wins while the
// loop still holds its marker. conclude is false for the budget-exhaustion
// outcomes, which deliberately leave no tombstone so a later webhook or
// manual check can still resolve the booking.
func (p *Poller) claim(paymentID string, conclude bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, done := p.concluded[paymentID]; done {
		return false
	}
	if _, ok := p.active[paymentID]; !ok {
		return false
	}
	p.removeLocked(paymentID)
	if conclude {
		p.concluded[paymentID] = struct{}{}
	}
	return true
}

func (p *Poller) removeLocked(paymentID string) bool {
	if _, ok := p.active[paymentID]; !ok {
		return false
	}
	delete(p.active, paymentID)
	if p.metrics != nil {
		p.metrics.ActivePolls.Dec()
	}
	return true
}

func (p *Poller) run(ctx context.Context, paymentID string, booking entities.Booking) {
	logger := log.FromContext(ctx).WithField("payment_id", paymentID)

	attempts := 0
	for {
		if !p.Active(paymentID) {
			logger.Info("Poll no longer active, stopping")
			return
		}

		payment, err := p.gateway.GetByID(ctx, paymentID)
		if err != nil {
			logger.WithError(err).Warn("Payment status check failed")

			attempts++
			if attempts >= p.cfg.MaxAttempts {
				if p.claim(paymentID, false) {
					logger.Error("Giving up on payment status checks after exhausting attempts")
					p.publish(ctx, entities.BookingPaymentCheckFailed{
						Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
						PaymentID: paymentID,
						Booking:   booking,
					})
				}
				return
			}
		} else {
			switch payment.Status {
			case entities.PaymentStatusSucceeded:
				if p.claim(paymentID, true) {
					logger.Info("Payment succeeded")
					p.publish(ctx, entities.BookingPaymentSucceeded{
						Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
						PaymentID: paymentID,
						Booking:   booking,
					})
					p.registry.Remove(paymentID)
				}
				return

			case entities.PaymentStatusCanceled:
				if p.claim(paymentID, true) {
					logger.Info("Payment canceled")
					p.publish(ctx, entities.BookingPaymentCanceled{
						Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
						PaymentID: paymentID,
						Booking:   booking,
					})
					p.registry.Remove(paymentID)
				}
				return

			case entities.PaymentStatusPending:
				attempts++
				if attempts >= p.cfg.MaxAttempts {
					if p.claim(paymentID, false) {
						logger.Warn("Payment still pending after exhausting attempts")
						p.publish(ctx, entities.BookingPaymentOverdue{
							Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
							PaymentID: paymentID,
							Booking:   booking,
						})
						// The registry entry stays: a late webhook or a
						// manual status check can still resolve the booking.
					}
					return
				}

			default:
				logger.WithField("status", payment.Status).Warn("Unhandled payment status, stopping poll")
				p.Cancel(paymentID)
				return
			}
		}

		select {
		case <-ctx.Done():
			p.Cancel(paymentID)
			return
		case <-p.cfg.Clock.After(p.cfg.Interval):
		}
	}
}

func (p *Poller) publish(ctx context.Context, event any) {
	// Outcome events drive the staff notification; a publish failure is
	// logged and absorbed so it cannot crash the reconciliation flow.
	if err := p.eventBus.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Error("Failed to publish payment outcome event")
	}
}
