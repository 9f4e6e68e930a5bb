package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound      = errors.New("business not found")
	ErrInvalidBusinessStatus = errors.New("invalid business status")
	ErrInvalidRating         = errors.New("rating must be between 0 and 5")
	ErrInvalidPriceTier      = errors.New("price tier must be between 1 and 4")
	ErrBusinessNameRequired  = errors.New("business name is required")
)

type BusinessInput struct {
	Name        string
	Description string
	PhoneNumber string
	Address     string
	Rating      *float64
	PriceTier   *int
	ReviewCount int
	Status      model.BusinessStatus
	Region      string // keyword region used to categorize
}

type BusinessService interface {
	CreateBusiness(ctx context.Context, input BusinessInput) (*model.Business, discovery.Resolution, error)
	GetBusiness(id uint) (*model.Business, error)
	UpdateBusiness(ctx context.Context, id uint, input BusinessInput) (*model.Business, error)
	DeleteBusiness(id uint) error
}

type businessService struct {
	businessRepo repository.BusinessRepository
	categorizer  CategorizationService
}

func NewBusinessService(businessRepo repository.BusinessRepository, categorizer CategorizationService) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		categorizer:  categorizer,
	}
}

// CreateBusiness stores the business and links it to its resolved category. Nothing is stored
// when the categorizer is misconfigured.
func (s *businessService) CreateBusiness(ctx context.Context, input BusinessInput) (*model.Business, discovery.Resolution, error) {
	business, err := input.toModel()
	if err != nil {
		return nil, discovery.Resolution{}, err
	}
	if business.Status == "" {
		business.Status = model.BusinessStatusActive
	}

	if _, err := s.categorizer.Preview(ctx, business.Name, business.Description, input.Region); err != nil {
		return nil, discovery.Resolution{}, err
	}

	if err := s.businessRepo.Create(business); err != nil {
		logger.Ctx(ctx).Error("Failed to create business", err, map[string]interface{}{
			"name": business.Name,
		})
		return nil, discovery.Resolution{}, err
	}

	resolution, err := s.categorizer.CategorizeBusiness(ctx, business, input.Region)
	if err != nil {
		return business, resolution, err
	}

	created, err := s.businessRepo.FindByID(business.ID)
	if err != nil {
		return business, resolution, nil
	}
	return created, resolution, nil
}

func (s *businessService) GetBusiness(id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

// UpdateBusiness replaces the editable fields and re-categorizes when the name or description changed.
// Nothing is saved when the new text cannot be categorized.
func (s *businessService) UpdateBusiness(ctx context.Context, id uint, input BusinessInput) (*model.Business, error) {
	existing, err := s.GetBusiness(id)
	if err != nil {
		return nil, err
	}

	updated, err := input.toModel()
	if err != nil {
		return nil, err
	}
	textChanged := updated.CategorizationText() != existing.CategorizationText()

	existing.Name = updated.Name
	existing.Description = updated.Description
	existing.PhoneNumber = updated.PhoneNumber
	existing.Address = updated.Address
	existing.Rating = updated.Rating
	existing.PriceTier = updated.PriceTier
	existing.ReviewCount = updated.ReviewCount
	if updated.Status != "" {
		existing.Status = updated.Status
	}

	// 분류가 실패하면 저장하지 않는다
	if textChanged {
		if _, err := s.categorizer.Preview(ctx, existing.Name, existing.Description, input.Region); err != nil {
			return nil, err
		}
	}

	if err := s.businessRepo.Update(existing); err != nil {
		return nil, err
	}

	if textChanged {
		if _, err := s.categorizer.CategorizeBusiness(ctx, existing, input.Region); err != nil {
			return nil, err
		}
	}
	return s.GetBusiness(id)
}

func (s *businessService) DeleteBusiness(id uint) error {
	if _, err := s.GetBusiness(id); err != nil {
		return err
	}
	return s.businessRepo.Delete(id)
}

func (in BusinessInput) toModel() (*model.Business, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrBusinessNameRequired
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, ErrInvalidBusinessStatus
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > discovery.MaxRating) {
		return nil, ErrInvalidRating
	}
	if in.PriceTier != nil && (*in.PriceTier < discovery.MinPriceTier || *in.PriceTier > discovery.MaxPriceTier) {
		return nil, ErrInvalidPriceTier
	}

	return &model.Business{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
		Rating:      in.Rating,
		PriceTier:   in.PriceTier,
		ReviewCount: in.ReviewCount,
		Status:      in.Status,
	}, nil
}
