package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotel-reservation-backend/models"
	"hotel-reservation-backend/store"
)

// newTestStore seeds an in-memory store with two rooms and three clients.
func newTestStore(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()

	rooms := []models.Room{
		{RoomNumber: "101", Type: models.RoomTypeDouble, Capacity: 2, NightlyRate: 100},
		{RoomNumber: "102", Type: models.RoomTypeSingle, Capacity: 1, NightlyRate: 80},
	}
	for i := range rooms {
		if err := st.SaveRoom(ctx, &rooms[i]); err != nil {
			t.Fatalf("seed room: %v", err)
		}
	}

	clients := []models.Client{
		{Name: "João Silva", NationalID: "12345678901"},
		{Name: "Maria Santos", NationalID: "98765432109"},
		{Name: "Pedro Oliveira", NationalID: "45678912345"},
	}
	for i := range clients {
		if err := st.SaveClient(ctx, &clients[i]); err != nil {
			t.Fatalf("seed client: %v", err)
		}
	}
	return st
}

func mustCreate(t *testing.T, svc *ReservationService, in CreateReservationInput) *models.Reservation {
	t.Helper()
	r, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create(%+v) failed: %v", in, err)
	}
	return r
}

func TestCreateReservation(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1, 2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})

	if r.Status != models.StatusConfirmed {
		t.Errorf("new reservation status = %q, want Confirmed", r.Status)
	}
	if r.TotalPrice != 500 {
		t.Errorf("TotalPrice = %v, want 500 (5 nights × 100)", r.TotalPrice)
	}
	if r.GuestCount != 2 {
		t.Errorf("GuestCount = %d, want 2", r.GuestCount)
	}
	if r.ClientID != 1 {
		t.Errorf("primary guest = %d, want first of clientIds", r.ClientID)
	}
	if r.ReferenceCode == "" {
		t.Error("reservation has no reference code")
	}
	if r.Client.Name != "João Silva" || r.Room.RoomNumber != "101" {
		t.Errorf("relations not expanded: client=%q room=%q", r.Client.Name, r.Room.RoomNumber)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	tests := []struct {
		name    string
		in      CreateReservationInput
		wantErr error
	}{
		{
			name: "unknownClient",
			in: CreateReservationInput{
				ClientIDs: []uint{99},
				RoomID:    1,
				CheckIn:   date(t, "2026-01-05"),
				CheckOut:  date(t, "2026-01-10"),
			},
			wantErr: ErrClientNotFound,
		},
		{
			name: "unknownRoom",
			in: CreateReservationInput{
				ClientIDs: []uint{1},
				RoomID:    99,
				CheckIn:   date(t, "2026-01-05"),
				CheckOut:  date(t, "2026-01-10"),
			},
			wantErr: ErrRoomNotFound,
		},
		{
			name: "threeGuestsInDoubleRoom",
			in: CreateReservationInput{
				ClientIDs: []uint{1, 2, 3},
				RoomID:    1,
				CheckIn:   date(t, "2026-01-05"),
				CheckOut:  date(t, "2026-01-10"),
			},
			wantErr: ErrCapacityExceeded,
		},
		{
			name: "checkOutBeforeCheckIn",
			in: CreateReservationInput{
				ClientIDs: []uint{1},
				RoomID:    1,
				CheckIn:   date(t, "2026-01-10"),
				CheckOut:  date(t, "2026-01-05"),
			},
			wantErr: ErrInvalidDateRange,
		},
		{
			name: "noGuests",
			in: CreateReservationInput{
				RoomID:   1,
				CheckIn:  date(t, "2026-01-05"),
				CheckOut: date(t, "2026-01-10"),
			},
			wantErr: ErrNoGuests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// nothing persisted by the failed attempts
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed creates left %d reservations behind", len(list))
	}
}

func TestCreateReservationConflicts(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})

	// overlapping range on the same room is rejected
	_, err := svc.Create(context.Background(), CreateReservationInput{
		ClientIDs: []uint{2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-08"),
		CheckOut:  date(t, "2026-01-12"),
	})
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Errorf("overlapping create: got %v, want ErrRoomUnavailable", err)
	}

	// back-to-back stay on the same room is fine: [05,10) then [10,15)
	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-10"),
		CheckOut:  date(t, "2026-01-15"),
	})

	// same dates on another room are unaffected
	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{3},
		RoomID:    2,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
}

func TestCancelledReservationDoesNotBlock(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})

	if _, err := svc.UpdateStatus(context.Background(), r.ID, models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
}

func TestDeleteFreesDates(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})

	if err := svc.Delete(context.Background(), r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), r.ID); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("Get after delete: got %v, want ErrReservationNotFound", err)
	}

	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
}

func TestDeleteUnknownReservation(t *testing.T) {
	svc := NewReservationService(newTestStore(t))
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("Delete(42): got %v, want ErrReservationNotFound", err)
	}
}

func TestUpdateExcludesSelf(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})

	// shifting by one day overlaps only the reservation itself
	newIn := date(t, "2026-01-06")
	newOut := date(t, "2026-01-11")
	updated, err := svc.Update(context.Background(), r.ID, ReservationPatch{
		CheckIn:  &newIn,
		CheckOut: &newOut,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.CheckIn.Equal(models.DateOnly(newIn)) {
		t.Errorf("CheckIn = %v, want %v", updated.CheckIn, newIn)
	}
	if updated.TotalPrice != 500 {
		t.Errorf("TotalPrice = %v, want 500", updated.TotalPrice)
	}
}

func TestUpdateRecomputesPrice(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
	if r.TotalPrice != 500 {
		t.Fatalf("TotalPrice = %v, want 500", r.TotalPrice)
	}

	// shorter stay on a cheaper room
	roomID := uint(2)
	newOut := date(t, "2026-01-08")
	updated, err := svc.Update(context.Background(), r.ID, ReservationPatch{
		RoomID:   &roomID,
		CheckOut: &newOut,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.TotalPrice != 240 {
		t.Errorf("TotalPrice = %v, want 240 (3 nights × 80)", updated.TotalPrice)
	}
	if updated.RoomID != 2 {
		t.Errorf("RoomID = %d, want 2", updated.RoomID)
	}
}

func TestUpdateConflictsWithOtherReservation(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
	second := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-10"),
		CheckOut:  date(t, "2026-01-15"),
	})

	// pulling the second stay forward collides with the first
	newIn := date(t, "2026-01-09")
	_, err := svc.Update(context.Background(), second.ID, ReservationPatch{CheckIn: &newIn})
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Errorf("conflicting update: got %v, want ErrRoomUnavailable", err)
	}

	// the failed update must not have changed anything
	got, err := svc.Get(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CheckIn.Equal(date(t, "2026-01-10")) {
		t.Errorf("CheckIn mutated by failed update: %v", got.CheckIn)
	}
}

func TestGuestListLengthIsAuthoritative(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	// override says 1, the list says 3: the list wins and exceeds capacity 2
	_, err := svc.Create(context.Background(), CreateReservationInput{
		ClientIDs:  []uint{1, 2, 3},
		RoomID:     1,
		CheckIn:    date(t, "2026-01-05"),
		CheckOut:   date(t, "2026-01-10"),
		GuestCount: 1,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Create: got %v, want ErrCapacityExceeded", err)
	}

	// shrinking the list on update wins over a stale larger override
	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1, 2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
	bigOverride := 5
	updated, err := svc.Update(context.Background(), r.ID, ReservationPatch{
		ClientIDs:  []uint{1},
		GuestCount: &bigOverride,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.GuestCount != 1 {
		t.Errorf("GuestCount = %d, want 1 (list length authoritative)", updated.GuestCount)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc := NewReservationService(newTestStore(t))
	ctx := context.Background()

	r := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})

	// the front desk moves reservations freely between the three states
	for _, status := range []string{models.StatusCompleted, models.StatusConfirmed, models.StatusCancelled} {
		got, err := svc.UpdateStatus(ctx, r.ID, status)
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", status, err)
		}
		if got.Status != status {
			t.Errorf("Status = %q, want %q", got.Status, status)
		}
	}

	if _, err := svc.UpdateStatus(ctx, r.ID, "CheckedIn"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status: got %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateStatus(ctx, 99, models.StatusCancelled); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("unknown reservation: got %v, want ErrReservationNotFound", err)
	}
}

func TestReconfirmIntoConflictRejected(t *testing.T) {
	svc := NewReservationService(newTestStore(t))
	ctx := context.Background()

	first := mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-05"),
		CheckOut:  date(t, "2026-01-10"),
	})
	if _, err := svc.UpdateStatus(ctx, first.ID, models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	// the freed dates get taken
	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{2},
		RoomID:    1,
		CheckIn:   date(t, "2026-01-07"),
		CheckOut:  date(t, "2026-01-09"),
	})

	// reactivating the first stay would break the no-overlap invariant
	if _, err := svc.UpdateStatus(ctx, first.ID, models.StatusConfirmed); !errors.Is(err, ErrRoomUnavailable) {
		t.Errorf("re-confirm into conflict: got %v, want ErrRoomUnavailable", err)
	}
}

// The no-overlap invariant must hold among Confirmed reservations after any
// sequence of successful operations.
func TestNoOverlapInvariant(t *testing.T) {
	st := newTestStore(t)
	svc := NewReservationService(st)
	ctx := context.Background()

	inputs := []CreateReservationInput{
		{ClientIDs: []uint{1}, RoomID: 1, CheckIn: date(t, "2026-01-05"), CheckOut: date(t, "2026-01-10")},
		{ClientIDs: []uint{2}, RoomID: 1, CheckIn: date(t, "2026-01-10"), CheckOut: date(t, "2026-01-15")},
		{ClientIDs: []uint{3}, RoomID: 1, CheckIn: date(t, "2026-01-07"), CheckOut: date(t, "2026-01-12")}, // rejected
		{ClientIDs: []uint{3}, RoomID: 2, CheckIn: date(t, "2026-01-07"), CheckOut: date(t, "2026-01-12")},
		{ClientIDs: []uint{1}, RoomID: 1, CheckIn: date(t, "2026-01-01"), CheckOut: date(t, "2026-01-05")},
	}
	for _, in := range inputs {
		_, _ = svc.Create(ctx, in) // conflicts are expected, tested elsewhere
	}

	byRoom := map[uint][]models.Reservation{}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, r := range list {
		if r.Status == models.StatusConfirmed {
			byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
		}
	}
	for roomID, rs := range byRoom {
		for i := range rs {
			for j := i + 1; j < len(rs); j++ {
				if models.Overlaps(rs[i].CheckIn, rs[i].CheckOut, rs[j].CheckIn, rs[j].CheckOut) {
					t.Errorf("room %d: reservations %d and %d overlap", roomID, rs[i].ID, rs[j].ID)
				}
			}
		}
	}
}

// Two racing creates for the same room and dates: exactly one may win.
func TestConcurrentCreateSingleWinner(t *testing.T) {
	svc := NewReservationService(newTestStore(t))
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateReservationInput{
				ClientIDs: []uint{1},
				RoomID:    1,
				CheckIn:   date(t, "2026-01-05"),
				CheckOut:  date(t, "2026-01-10"),
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrRoomUnavailable):
		default:
			t.Errorf("unexpected error from racing create: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("racing creates produced %d winners, want exactly 1", winners)
	}
}

func TestListOrdersByCheckInDescending(t *testing.T) {
	svc := NewReservationService(newTestStore(t))

	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{1}, RoomID: 1,
		CheckIn: date(t, "2026-01-05"), CheckOut: date(t, "2026-01-10"),
	})
	mustCreate(t, svc, CreateReservationInput{
		ClientIDs: []uint{2}, RoomID: 2,
		CheckIn: date(t, "2026-02-01"), CheckOut: date(t, "2026-02-03"),
	})

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d reservations, want 2", len(list))
	}
	if !list[0].CheckIn.After(list[1].CheckIn) {
		t.Errorf("reservations not ordered newest check-in first: %v, %v",
			list[0].CheckIn, list[1].CheckIn)
	}
}
