package store

import (
	"context"
	"sort"
	"sync"

	"hotel-reservation-backend/models"
)

type memoryData struct {
	rooms        map[uint]models.Room
	clients      map[uint]models.Client
	reservations map[uint]models.Reservation

	nextRoomID        uint
	nextClientID      uint
	nextReservationID uint
}

// Memory is a mutex-guarded in-memory Store. It backs the engine tests and
// works as a throwaway backend for local runs; Atomically holds the store
// lock for the whole unit of work, so concurrent units fully serialize.
type Memory struct {
	mu   sync.Mutex
	data *memoryData

	// set on the view handed to Atomically callbacks; the lock is already
	// held there, so per-call locking must be skipped
	inTx bool
}

func NewMemory() *Memory {
	return &Memory{
		data: &memoryData{
			rooms:             make(map[uint]models.Room),
			clients:           make(map[uint]models.Client),
			reservations:      make(map[uint]models.Reservation),
			nextRoomID:        1,
			nextClientID:      1,
			nextReservationID: 1,
		},
	}
}

func (m *Memory) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (d *memoryData) snapshot() *memoryData {
	cp := &memoryData{
		rooms:             make(map[uint]models.Room, len(d.rooms)),
		clients:           make(map[uint]models.Client, len(d.clients)),
		reservations:      make(map[uint]models.Reservation, len(d.reservations)),
		nextRoomID:        d.nextRoomID,
		nextClientID:      d.nextClientID,
		nextReservationID: d.nextReservationID,
	}
	for id, r := range d.rooms {
		cp.rooms[id] = r
	}
	for id, c := range d.clients {
		cp.clients[id] = c
	}
	for id, r := range d.reservations {
		r.ClientIDs = append(r.ClientIDs[:0:0], r.ClientIDs...)
		cp.reservations[id] = r
	}
	return cp
}

func (m *Memory) Atomically(ctx context.Context, fn func(tx Store) error) error {
	if m.inTx {
		// nested units join the outer one, same as gorm's default
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.data.snapshot()
	tx := &Memory{data: m.data, inTx: true}
	if err := fn(tx); err != nil {
		m.data.rooms = snap.rooms
		m.data.clients = snap.clients
		m.data.reservations = snap.reservations
		m.data.nextRoomID = snap.nextRoomID
		m.data.nextClientID = snap.nextClientID
		m.data.nextReservationID = snap.nextReservationID
		return err
	}
	return nil
}

// ---------------- rooms ----------------

func (m *Memory) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	defer m.lock()()
	room, ok := m.data.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

// LockRoom in memory is just GetRoom: Atomically already holds the store
// lock, which is coarser than a per-room lock.
func (m *Memory) LockRoom(ctx context.Context, id uint) (*models.Room, error) {
	return m.GetRoom(ctx, id)
}

func (m *Memory) RoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	defer m.lock()()
	for _, room := range m.data.rooms {
		if room.RoomNumber == number {
			r := room
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListRooms(ctx context.Context) ([]models.Room, error) {
	defer m.lock()()
	rooms := make([]models.Room, 0, len(m.data.rooms))
	for _, room := range m.data.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	return rooms, nil
}

func (m *Memory) SaveRoom(ctx context.Context, room *models.Room) error {
	defer m.lock()()
	if room.ID == 0 {
		room.ID = m.data.nextRoomID
		m.data.nextRoomID++
	}
	m.data.rooms[room.ID] = *room
	return nil
}

func (m *Memory) DeleteRoom(ctx context.Context, id uint) error {
	defer m.lock()()
	if _, ok := m.data.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(m.data.rooms, id)
	return nil
}

// ---------------- clients ----------------

func (m *Memory) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	defer m.lock()()
	client, ok := m.data.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &client, nil
}

func (m *Memory) ClientByNationalID(ctx context.Context, nationalID string) (*models.Client, error) {
	defer m.lock()()
	for _, client := range m.data.clients {
		if client.NationalID == nationalID {
			c := client
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListClients(ctx context.Context) ([]models.Client, error) {
	defer m.lock()()
	clients := make([]models.Client, 0, len(m.data.clients))
	for _, client := range m.data.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (m *Memory) SaveClient(ctx context.Context, client *models.Client) error {
	defer m.lock()()
	if client.ID == 0 {
		client.ID = m.data.nextClientID
		m.data.nextClientID++
	}
	m.data.clients[client.ID] = *client
	return nil
}

func (m *Memory) DeleteClient(ctx context.Context, id uint) error {
	defer m.lock()()
	if _, ok := m.data.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.data.clients, id)
	return nil
}

// ---------------- reservations ----------------

// expand fills the relation fields the way the gorm store preloads them.
func (d *memoryData) expand(r models.Reservation) models.Reservation {
	if client, ok := d.clients[r.ClientID]; ok {
		r.Client = client
	}
	if room, ok := d.rooms[r.RoomID]; ok {
		r.Room = room
	}
	return r
}

func (m *Memory) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	defer m.lock()()
	r, ok := m.data.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	r = m.data.expand(r)
	return &r, nil
}

func (m *Memory) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	defer m.lock()()
	list := make([]models.Reservation, 0, len(m.data.reservations))
	for _, r := range m.data.reservations {
		list = append(list, m.data.expand(r))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CheckIn.After(list[j].CheckIn) })
	return list, nil
}

func (m *Memory) ConfirmedByRoom(ctx context.Context, roomID, excludeID uint) ([]models.Reservation, error) {
	defer m.lock()()
	var list []models.Reservation
	for _, r := range m.data.reservations {
		if r.RoomID != roomID || r.Status != models.StatusConfirmed {
			continue
		}
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *Memory) CountConfirmedByRoom(ctx context.Context, roomID uint) (int64, error) {
	list, err := m.ConfirmedByRoom(ctx, roomID, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (m *Memory) SaveReservation(ctx context.Context, r *models.Reservation) error {
	defer m.lock()()
	if r.ID == 0 {
		r.ID = m.data.nextReservationID
		m.data.nextReservationID++
	}
	stored := *r
	stored.Client = models.Client{}
	stored.Room = models.Room{}
	m.data.reservations[r.ID] = stored
	return nil
}

func (m *Memory) DeleteReservation(ctx context.Context, id uint) error {
	defer m.lock()()
	if _, ok := m.data.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(m.data.reservations, id)
	return nil
}
