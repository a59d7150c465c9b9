package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pawpal/internal/model"
	"pawpal/internal/repository"
)

// PetInput represents data required to register a pet.
type PetInput struct {
	Name        string
	Species     string
	Age         int
	HealthNotes string
}

// PetService wraps pet-related business logic.
type PetService struct {
	petRepo *repository.PetRepository
}

func NewPetService(petRepo *repository.PetRepository) *PetService {
	return &PetService{petRepo: petRepo}
}

func (s *PetService) AddPet(ctx context.Context, user *model.User, input PetInput) (*model.Pet, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("pet name is required")
	}

	pet := model.Pet{
		UserID:      user.ID,
		PublicID:    uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Species:     strings.TrimSpace(input.Species),
		Age:         input.Age,
		HealthNotes: strings.TrimSpace(input.HealthNotes),
	}
	if err := s.petRepo.Create(ctx, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

func (s *PetService) List(ctx context.Context, user *model.User) ([]model.Pet, error) {
	return s.petRepo.ListByUser(ctx, user.ID)
}

func (s *PetService) Get(ctx context.Context, user *model.User, petID uint) (*model.Pet, error) {
	return s.petRepo.FindByID(ctx, user.ID, petID)
}
