package service

import (
	"context"
	"fmt"
	"regexp"

	"tillpoint/internal/apperr"
	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
)

// Loyalty card codes are 10 digits.
var cardCodePattern = regexp.MustCompile(`^[0-9]{10}$`)

// CustomerService is the pass-through customer/loyalty-card management:
// only uniqueness and non-negative points to enforce.
type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	// ModifyPoints applies a signed delta to the card holder's points;
	// the result may never be negative.
	ModifyPoints(ctx context.Context, cardCode string, delta int) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{Name: req.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "customer not found")
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "customer not found")
	}
	c.Name = req.Name

	if req.CardCode != nil {
		switch code := *req.CardCode; code {
		case "":
			c.CardCode = nil
		default:
			if !cardCodePattern.MatchString(code) {
				return nil, apperr.New(apperr.BadRequest, "card code must be 10 digits")
			}
			if other, err := s.repo.FindByCardCode(ctx, code); err == nil && other.ID != c.ID {
				return nil, apperr.New(apperr.Conflict, fmt.Sprintf("card %s is already attached", code))
			}
			c.CardCode = &code
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) ModifyPoints(ctx context.Context, cardCode string, delta int) (*dto.CustomerResponse, error) {
	if !cardCodePattern.MatchString(cardCode) {
		return nil, apperr.New(apperr.BadRequest, "card code must be 10 digits")
	}
	c, err := s.repo.FindByCardCode(ctx, cardCode)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, fmt.Sprintf("card %s not found", cardCode))
	}
	if c.Points+delta < 0 {
		return nil, apperr.New(apperr.BadRequest,
			fmt.Sprintf("card holds %d points, cannot apply delta %d", c.Points, delta))
	}
	c.Points += delta
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperr.New(apperr.NotFound, "customer not found")
	}
	return s.repo.Delete(ctx, id)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		CardCode: c.CardCode,
		Points:   c.Points,
	}
}
