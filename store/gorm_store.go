package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-reservation-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of gorm/MySQL.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
	if err != nil && isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return err
}

// MySQL reports deadlocks as 1213 and lock wait timeouts as 1205; both mean
// the unit of work lost a race and must be surfaced, not retried here.
func isSerializationFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "error 1213") ||
		strings.Contains(msg, "error 1205") ||
		strings.Contains(msg, "deadlock")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---------------- rooms ----------------

func (s *GormStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *GormStore) LockRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *GormStore) RoomByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).
		Where("room_number = ?", number).
		First(&room).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *GormStore) SaveRoom(ctx context.Context, room *models.Room) error {
	return s.DB.WithContext(ctx).Save(room).Error
}

func (s *GormStore) DeleteRoom(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- clients ----------------

func (s *GormStore) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := s.DB.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (s *GormStore) ClientByNationalID(ctx context.Context, nationalID string) (*models.Client, error) {
	var client models.Client
	if err := s.DB.WithContext(ctx).
		Where("national_id = ?", nationalID).
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (s *GormStore) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.DB.WithContext(ctx).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *GormStore) SaveClient(ctx context.Context, client *models.Client) error {
	return s.DB.WithContext(ctx).Save(client).Error
}

func (s *GormStore) DeleteClient(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------- reservations ----------------

func (s *GormStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.WithContext(ctx).
		Preload("Client").
		Preload("Room").
		First(&r, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *GormStore) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.WithContext(ctx).
		Preload("Client").
		Preload("Room").
		Order("check_in DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

func (s *GormStore) ConfirmedByRoom(ctx context.Context, roomID, excludeID uint) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, models.StatusConfirmed)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var list []models.Reservation
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to load confirmed reservations for room %d: %w", roomID, err)
	}
	return list, nil
}

func (s *GormStore) CountConfirmedByRoom(ctx context.Context, roomID uint) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("room_id = ? AND status = ?", roomID, models.StatusConfirmed).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count confirmed reservations for room %d: %w", roomID, err)
	}
	return n, nil
}

func (s *GormStore) SaveReservation(ctx context.Context, r *models.Reservation) error {
	return s.DB.WithContext(ctx).Omit("Client", "Room").Save(r).Error
}

func (s *GormStore) DeleteReservation(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
