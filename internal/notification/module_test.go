package notification

import (
	"context"
	"errors"
	"testing"

	"rental_agreement_backend/internal/email"
	"rental_agreement_backend/internal/events"
	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	registrations []string
	err           error
}

func (s *testSender) SendRentalAgreementEmail(context.Context, string, string, email.RentalSummary, ...email.Attachment) error {
	return nil
}

func (s *testSender) SendRegistrationEmail(_ context.Context, toEmail, _ string) error {
	s.registrations = append(s.registrations, toEmail)
	return s.err
}

type testQueue struct {
	ids []uuid.UUID
}

func (q *testQueue) EnqueueAgreementOnce(_ context.Context, id uuid.UUID) (bool, error) {
	q.ids = append(q.ids, id)
	return true, nil
}

func TestCustomerRegisteredSendsEmail(t *testing.T) {
	sender := &testSender{}
	m := New(sender, logger.Discard())

	err := m.Handle(context.Background(), events.CustomerRegistered{
		BaseEvent:  events.NewBaseEvent(),
		CustomerID: uuid.New(),
		FullName:   "Jane Doe",
		Email:      "jane@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.registrations) != 1 || sender.registrations[0] != "jane@example.com" {
		t.Fatalf("expected one registration email, got %v", sender.registrations)
	}
}

func TestCustomerRegisteredReturnsSendError(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	m := New(sender, logger.Discard())

	err := m.Handle(context.Background(), events.CustomerRegistered{CustomerID: uuid.New(), Email: "jane@example.com"})
	if err == nil {
		t.Fatal("expected send error")
	}
}

func TestRentalSubmittedQueuesOnlyWhenEnabled(t *testing.T) {
	m := New(nil, logger.Discard())
	id := uuid.New()

	if err := m.Handle(context.Background(), events.RentalSubmitted{RentalID: id}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queue := &testQueue{}
	m.SetAgreementQueue(queue)
	if err := m.Handle(context.Background(), events.RentalSubmitted{RentalID: id}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue.ids) != 1 || queue.ids[0] != id {
		t.Fatalf("expected one queued rental, got %v", queue.ids)
	}
}

func TestBusRoutesEventsToModule(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	sender := &testSender{}
	m := New(sender, logger.Discard())
	m.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.CustomerRegistered{CustomerID: uuid.New(), Email: "a@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.registrations) != 1 {
		t.Fatalf("expected handler to run, got %d emails", len(sender.registrations))
	}
}
