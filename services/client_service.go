package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-reservation-backend/models"
	"hotel-reservation-backend/store"
)

type ClientService struct {
	store store.Store
}

func NewClientService(st store.Store) *ClientService {
	return &ClientService{store: st}
}

type ClientInput struct {
	Name       string
	NationalID string
	Email      string
	Phone      string
	PostalCode string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
}

func (in *ClientInput) apply(c *models.Client) {
	c.Name = in.Name
	c.NationalID = in.NationalID
	c.Email = in.Email
	c.Phone = in.Phone
	c.PostalCode = in.PostalCode
	c.Street = in.Street
	c.Number = in.Number
	c.Complement = in.Complement
	c.District = in.District
	c.City = in.City
	c.State = in.State
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrClientNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve client %d: %w", id, err)
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.store.ListClients(ctx)
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	var created *models.Client
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if _, err := tx.ClientByNationalID(ctx, in.NationalID); err == nil {
			return fmt.Errorf("%w: %s", ErrNationalIDTaken, in.NationalID)
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check national id: %w", err)
		}

		client := &models.Client{}
		in.apply(client)
		if err := tx.SaveClient(ctx, client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		created = client
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		client, err := tx.GetClient(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrClientNotFound, id)
			}
			return fmt.Errorf("failed to load client %d: %w", id, err)
		}

		if in.NationalID != client.NationalID {
			if _, err := tx.ClientByNationalID(ctx, in.NationalID); err == nil {
				return fmt.Errorf("%w: %s", ErrNationalIDTaken, in.NationalID)
			} else if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("failed to check national id: %w", err)
			}
		}

		in.apply(client)
		if err := tx.SaveClient(ctx, client); err != nil {
			return fmt.Errorf("failed to update client %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

func (s *ClientService) Delete(ctx context.Context, id uint) error {
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		if err := tx.DeleteClient(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: id %d", ErrClientNotFound, id)
			}
			return fmt.Errorf("failed to delete client %d: %w", id, err)
		}
		return nil
	})
	return mapStoreErr(err)
}
