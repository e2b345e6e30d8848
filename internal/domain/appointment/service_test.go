package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carenet/hms/internal/platform/hmserr"
)

// -- Mock Appointment Repository --

type mockRepo struct {
	mu      sync.Mutex
	appts   map[uuid.UUID]*Appointment
	history map[uuid.UUID][]*StatusChange
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		appts:   make(map[uuid.UUID]*Appointment),
		history: make(map[uuid.UUID][]*StatusChange),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, hmserr.NewNotFound("appointment", id.String())
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appts[id]; !ok {
		return false, nil
	}
	delete(m.appts, id)
	return true, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.appts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, len(out), nil
}

func (m *mockRepo) ListByDate(_ context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.appts {
		if a.Date.Equal(date) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := 1, 1
		if out[i].Status == StatusArrived {
			ri = 0
		}
		if out[j].Status == StatusArrived {
			rj = 0
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, len(out), nil
}

func (m *mockRepo) TransitionStatus(_ context.Context, id uuid.UUID, to Status, from ...Status) (Status, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return "", false, nil
	}
	for _, f := range from {
		if a.Status == f {
			prior := a.Status
			a.Status = to
			a.Version++
			a.UpdatedAt = time.Now()
			return prior, true, nil
		}
	}
	return "", false, nil
}

func (m *mockRepo) AddStatusChange(_ context.Context, sc *StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc.ID = uuid.New()
	m.history[sc.AppointmentID] = append(m.history[sc.AppointmentID], sc)
	return nil
}

func (m *mockRepo) GetStatusHistory(_ context.Context, id uuid.UUID) ([]*StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history[id], nil
}

func validBooking() BookInput {
	return BookInput{
		PatientID:   uuid.New(),
		PatientName: "Jane Doe",
		Provider:    "Dr. Okafor",
		Type:        "checkup",
		Date:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		TimeOfDay:   "09:30",
	}
}

// -- Tests --

func TestBook(t *testing.T) {
	svc := NewService(newMockRepo())

	a, err := svc.Book(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("new appointment status = %s, want scheduled", a.Status)
	}
	if a.Priority != PriorityNormal {
		t.Errorf("default priority = %s, want normal", a.Priority)
	}
	if a.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
}

func TestBookValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*BookInput)
	}{
		{"missing patient id", func(in *BookInput) { in.PatientID = uuid.Nil }},
		{"missing patient name", func(in *BookInput) { in.PatientName = "  " }},
		{"missing provider", func(in *BookInput) { in.Provider = "" }},
		{"missing date", func(in *BookInput) { in.Date = time.Time{} }},
		{"missing time", func(in *BookInput) { in.TimeOfDay = "   " }},
		{"bad priority", func(in *BookInput) { in.Priority = "urgent" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validBooking()
			c.mutate(&in)
			_, err := svc.Book(ctx, in)
			var ve *hmserr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBookKeepsCalendarDay(t *testing.T) {
	svc := NewService(newMockRepo())

	// Midnight in UTC+10 is the previous day in UTC; the booked date
	// must stay on the day the caller named.
	zone := time.FixedZone("AEST", 10*60*60)
	in := validBooking()
	in.Date = time.Date(2026, 9, 1, 0, 0, 0, 0, zone)

	a, err := svc.Book(context.Background(), in)
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !a.Date.Equal(want) {
		t.Errorf("date = %v, want %v", a.Date, want)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, err := svc.Book(ctx, validBooking())
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	a, err = svc.Arrive(ctx, a.ID)
	if err != nil {
		t.Fatalf("Arrive failed: %v", err)
	}
	if a.Status != StatusArrived {
		t.Errorf("status = %s, want arrived", a.Status)
	}

	a, err = svc.Complete(ctx, a.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if a.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", a.Status)
	}

	history, err := svc.History(ctx, a.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].From != StatusScheduled || history[0].To != StatusArrived {
		t.Errorf("first change = %s -> %s, want scheduled -> arrived", history[0].From, history[0].To)
	}
	if history[1].From != StatusArrived || history[1].To != StatusCompleted {
		t.Errorf("second change = %s -> %s, want arrived -> completed", history[1].From, history[1].To)
	}
}

func TestCompleteRequiresArrival(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())
	_, err := svc.Complete(ctx, a.ID)
	var it *hmserr.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if it.Current != string(StatusScheduled) {
		t.Errorf("error reports current = %q, want scheduled", it.Current)
	}
}

func TestArriveAfterCancel(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	_, err := svc.Arrive(ctx, a.ID)
	var it *hmserr.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if it.Current != string(StatusCancelled) {
		t.Errorf("error reports current = %q, want cancelled", it.Current)
	}
}

func TestCancelTwice(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	_, err := svc.Cancel(ctx, a.ID)
	var it *hmserr.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("second cancel should fail with invalid transition, got %v", err)
	}
	got, _ := svc.Get(ctx, a.ID)
	if got.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
}

func TestCancelArrived(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())
	if _, err := svc.Arrive(ctx, a.ID); err != nil {
		t.Fatalf("Arrive failed: %v", err)
	}
	a, err := svc.Cancel(ctx, a.ID)
	if err != nil {
		t.Fatalf("Cancel of arrived appointment failed: %v", err)
	}
	if a.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", a.Status)
	}
}

func TestConcurrentComplete(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())
	if _, err := svc.Arrive(ctx, a.ID); err != nil {
		t.Fatalf("Arrive failed: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Complete(ctx, a.ID)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		var it *hmserr.InvalidTransitionError
		if !errors.As(err, &it) {
			t.Errorf("loser got %v, want invalid transition", err)
		}
	}
	if won != 1 {
		t.Errorf("%d completions succeeded, want exactly 1", won)
	}

	history, _ := svc.History(ctx, a.ID)
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2 (arrive + one complete)", len(history))
	}
}

func TestTransitionMissingAppointment(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Arrive(context.Background(), uuid.New())
	var nf *hmserr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())

	err := svc.Delete(ctx, a.ID, false)
	var pd *hmserr.PermissionDenied
	if !errors.As(err, &pd) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if _, err := svc.Get(ctx, a.ID); err != nil {
		t.Fatal("appointment should still exist after refused delete")
	}

	if err := svc.Delete(ctx, a.ID, true); err != nil {
		t.Fatalf("confirmed delete failed: %v", err)
	}
	_, err = svc.Get(ctx, a.ID)
	var nf *hmserr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestDeleteTerminalAppointment(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, _ := svc.Book(ctx, validBooking())
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := svc.Delete(ctx, a.ID, true); err != nil {
		t.Fatalf("delete of cancelled appointment failed: %v", err)
	}
}

func TestDayListArrivedFirst(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		in := validBooking()
		in.Date = day
		a, err := svc.Book(ctx, in)
		if err != nil {
			t.Fatalf("Book failed: %v", err)
		}
		ids = append(ids, a.ID)
		time.Sleep(time.Millisecond)
	}

	// Last booked arrives first.
	if _, err := svc.Arrive(ctx, ids[2]); err != nil {
		t.Fatalf("Arrive failed: %v", err)
	}

	appts, total, err := svc.DayList(ctx, day, 20, 0)
	if err != nil {
		t.Fatalf("DayList failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if appts[0].ID != ids[2] {
		t.Errorf("arrived appointment should lead the day list")
	}
	if appts[1].ID != ids[0] || appts[2].ID != ids[1] {
		t.Errorf("remaining appointments should keep booking order")
	}
}
