package agreement

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"rental_agreement_backend/internal/adapters/storage"
	"rental_agreement_backend/platform/apperr"
	"rental_agreement_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRecords struct {
	mu      sync.Mutex
	rental  Rental
	party   Party
	refs    []string
	current string
	err     error
}

func (f *fakeRecords) GetRentalByID(ctx context.Context, id uuid.UUID) (Rental, error) {
	if f.err != nil {
		return Rental{}, f.err
	}
	if id != f.rental.ID {
		return Rental{}, apperr.NotFound("rental not found")
	}
	return f.rental, nil
}

func (f *fakeRecords) GetPartyByID(ctx context.Context, id uuid.UUID) (Party, error) {
	if id != f.party.ID {
		return Party{}, apperr.NotFound("customer not found")
	}
	return f.party, nil
}

func (f *fakeRecords) SetAgreementReference(ctx context.Context, rentalID uuid.UUID, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs = append(f.refs, ref)
	f.current = ref
	return nil
}

type fakeAssembler struct {
	delay time.Duration
	err   error
}

func (a fakeAssembler) Assemble(ctx context.Context, rental Rental, party Party) ([]byte, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	return []byte("%PDF-1.3 " + party.FullName), nil
}

type fakeDeliverer struct {
	err     error
	summary Summary
	calls   int
}

func (d *fakeDeliverer) Deliver(ctx context.Context, party Party, ref string, summary Summary) error {
	d.calls++
	d.summary = summary
	return d.err
}

func fixture() *fakeRecords {
	customerID := uuid.New()
	photos := make(map[PhotoSlot]string, len(PhotoSlots))
	for _, s := range PhotoSlots {
		photos[s] = "/uploads/vehicle_" + string(s) + ".jpg"
	}
	return &fakeRecords{
		rental: Rental{
			ID:                uuid.New(),
			CustomerID:        customerID,
			Vehicle:           "Honda City",
			TotalDays:         5,
			RentalPerDayCents: 10000,
			DepositCents:      30000,
			DiscountCents:     5000,
			GrandTotalCents:   75000,
			Photos:            photos,
			SignatureRef:      "/uploads/signature_1.png",
		},
		party: Party{ID: customerID, FullName: "Ahmad bin Ali", Email: "ahmad@example.com"},
	}
}

func newPipeline(t *testing.T, records RecordStore, asm Assembler, d Deliverer, cfg Config) (*Pipeline, *storage.LocalStore) {
	t.Helper()
	store := storage.NewLocalStore(t.TempDir())
	return New(records, asm, store, d, cfg, logger.Discard()), store
}

func TestGenerateAgreementStoresAndRecordsReference(t *testing.T) {
	records := fixture()
	deliverer := &fakeDeliverer{}
	p, store := newPipeline(t, records, fakeAssembler{}, deliverer, Config{})

	res, err := p.GenerateAgreement(context.Background(), records.rental.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Reference, "/backups/Ahmad-bin-Ali-") || !strings.HasSuffix(res.Reference, "-agreement.pdf") {
		t.Fatalf("unexpected reference %s", res.Reference)
	}
	if records.current != res.Reference {
		t.Fatalf("expected recorded reference %s, got %s", res.Reference, records.current)
	}
	if !res.Delivered || deliverer.calls != 1 {
		t.Fatalf("expected one successful delivery, got delivered=%v calls=%d", res.Delivered, deliverer.calls)
	}
	if deliverer.summary.GrandTotalCents != 75000 || deliverer.summary.DownloadURL != res.DownloadURL {
		t.Fatalf("unexpected summary %+v", deliverer.summary)
	}

	data, err := store.Read(context.Background(), res.Reference)
	if err != nil {
		t.Fatalf("expected stored document: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("unexpected stored bytes %q", data)
	}
}

func TestGenerateAgreementWithoutDelivererReportsNotConfigured(t *testing.T) {
	records := fixture()
	p, _ := newPipeline(t, records, fakeAssembler{}, nil, Config{})

	res, err := p.GenerateAgreement(context.Background(), records.rental.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Delivered || res.DeliveryConfigured {
		t.Fatalf("expected delivery to be reported as not configured, got %+v", res)
	}
}

func TestGenerateAgreementUnknownRental(t *testing.T) {
	p, _ := newPipeline(t, fixture(), fakeAssembler{}, nil, Config{})

	_, err := p.GenerateAgreement(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGenerateAgreementDeliveryFailureKeepsReference(t *testing.T) {
	records := fixture()
	p, _ := newPipeline(t, records, fakeAssembler{}, &fakeDeliverer{err: errors.New("smtp: 421")}, Config{})

	res, err := p.GenerateAgreement(context.Background(), records.rental.ID)
	if err != nil {
		t.Fatalf("delivery failure must not fail generation: %v", err)
	}
	if res.Delivered || !res.DeliveryConfigured {
		t.Fatalf("expected configured but undelivered, got %+v", res)
	}
	if records.current == "" || records.current != res.Reference {
		t.Fatalf("expected reference to be persisted, got %q", records.current)
	}
}

func TestGenerateAgreementStrictModeRequiresEverything(t *testing.T) {
	records := fixture()
	records.rental.SignatureRef = ""
	delete(records.rental.Photos, SlotKnownDamage)

	strict, _ := newPipeline(t, records, fakeAssembler{}, nil, Config{Strict: true})
	_, err := strict.GenerateAgreement(context.Background(), records.rental.ID)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if records.current != "" {
		t.Fatal("strict failure must not record a reference")
	}

	lenient, _ := newPipeline(t, records, fakeAssembler{}, nil, Config{})
	if _, err := lenient.GenerateAgreement(context.Background(), records.rental.ID); err != nil {
		t.Fatalf("expected lenient mode to tolerate gaps, got %v", err)
	}
}

func TestGenerateAgreementStepTimeout(t *testing.T) {
	records := fixture()
	p, _ := newPipeline(t, records, fakeAssembler{delay: time.Second}, nil, Config{StepTimeout: 20 * time.Millisecond})

	_, err := p.GenerateAgreement(context.Background(), records.rental.ID)
	if !apperr.Is(err, apperr.KindTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if records.current != "" {
		t.Fatal("timed out generation must not record a reference")
	}
}

func TestGenerateAgreementAssemblyErrorPropagates(t *testing.T) {
	records := fixture()
	p, _ := newPipeline(t, records, fakeAssembler{err: errors.New("maroto failed")}, nil, Config{})

	if _, err := p.GenerateAgreement(context.Background(), records.rental.ID); err == nil {
		t.Fatal("expected assembly error")
	}
}

func TestConcurrentGenerationLastWriteWins(t *testing.T) {
	records := fixture()
	p, store := newPipeline(t, records, fakeAssembler{}, nil, Config{})

	var wg sync.WaitGroup
	results := make([]Result, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.GenerateAgreement(context.Background(), records.rental.ID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if results[0].Reference == results[1].Reference {
		t.Fatal("expected distinct stored documents")
	}
	if records.current != results[0].Reference && records.current != results[1].Reference {
		t.Fatalf("recorded reference %s matches neither call", records.current)
	}
	for _, r := range results {
		if ok, err := store.Exists(context.Background(), r.Reference); err != nil || !ok {
			t.Fatalf("expected %s to exist, got ok=%v err=%v", r.Reference, ok, err)
		}
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 4, 9, 15, 0, 0, 0, time.UTC)
	got := FileName("  Tan  Mei Ling ", at)
	if !strings.HasPrefix(got, "Tan-Mei-Ling-2025-04-09-") || !strings.HasSuffix(got, "-agreement.pdf") {
		t.Fatalf("unexpected file name %s", got)
	}
	if got := FileName("../..", at); !strings.HasPrefix(got, "Customer-2025-04-09-") {
		t.Fatalf("expected fallback name, got %s", got)
	}
}
