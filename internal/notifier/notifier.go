package notifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Шаблоны WhatsApp, согласованные в Meta Business Manager
var templates = map[domain.EventType]string{
	domain.EventAppointmentCreated:   "appointment_created",
	domain.EventAppointmentConfirmed: "appointment_confirmed",
	domain.EventAppointmentCancelled: "appointment_cancelled",
}

const messageDateFormat = "02/01/2006"

// Notifier рассылает уведомления о записях в фоне.
// Ошибки каналов только логируются и не влияют на результат операции.
type Notifier struct {
	clients   ClientRepository
	sender    MessageSender
	publisher EventPublisher
	limiter   *rate.Limiter
	timeout   time.Duration
	loc       *time.Location
	logger    Logger

	wg sync.WaitGroup
}

// New создает notifier. rateLimit и burst ограничивают частоту отправки WhatsApp сообщений.
func New(clients ClientRepository, rateLimit float64, burst int, timeout time.Duration, loc *time.Location, logger Logger) *Notifier {
	return &Notifier{
		clients: clients,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), burst),
		timeout: timeout,
		loc:     loc,
		logger:  logger,
	}
}

// UseWhatsApp включает отправку сообщений клиентам
func (n *Notifier) UseWhatsApp(sender MessageSender) {
	n.sender = sender
}

// UsePublisher включает публикацию событий в шину
func (n *Notifier) UsePublisher(publisher EventPublisher) {
	n.publisher = publisher
}

// Notify запускает доставку события и сразу возвращает управление
func (n *Notifier) Notify(event domain.EventType, appt domain.Appointment) {
	if n.sender == nil && n.publisher == nil {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		n.dispatch(ctx, event, appt)
	}()
}

// Shutdown ждет завершения начатых доставок, но не дольше ctx
func (n *Notifier) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) dispatch(ctx context.Context, event domain.EventType, appt domain.Appointment) {
	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, event, appt); err != nil {
			n.logger.Error("Notify: failed to publish %s for appointment id=%d: %v", event, appt.ID, err)
		}
	}

	if n.sender != nil {
		n.sendWhatsApp(ctx, event, appt)
	}
}

func (n *Notifier) sendWhatsApp(ctx context.Context, event domain.EventType, appt domain.Appointment) {
	template, ok := templates[event]
	if !ok {
		n.logger.Warn("Notify: no whatsapp template for event %s", event)
		return
	}

	client, err := n.clients.GetByID(ctx, appt.OrganizationID, appt.ClientID)
	if err != nil {
		n.logger.Error("Notify: failed to get client id=%d: %v", appt.ClientID, err)
		return
	}
	if client.Phone == nil || *client.Phone == "" {
		n.logger.Info("Notify: client id=%d has no phone, whatsapp skipped", client.ID)
		return
	}

	if err := n.limiter.Wait(ctx); err != nil {
		n.logger.Warn("Notify: rate limiter: %v", err)
		return
	}

	start := appt.StartAt.In(n.loc)
	params := []string{
		client.Name,
		appt.ServiceName,
		start.Format(messageDateFormat),
		start.Format(domain.TimeFormat),
	}

	if _, err := n.sender.SendTemplate(ctx, *client.Phone, template, params); err != nil {
		n.logger.Error("Notify: failed to send %s to client id=%d: %v", template, client.ID, err)
	}
}
