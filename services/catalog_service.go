package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"salonpro-api/models"
	"salonpro-api/utils"
)

type CatalogStore interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	ListCustomers(ctx context.Context, search string) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	SaveCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	CreateService(ctx context.Context, service *models.Service) error
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	SaveService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id uuid.UUID) error

	CreateTherapist(ctx context.Context, therapist *models.Therapist) error
	ListTherapists(ctx context.Context, activeOnly bool) ([]models.Therapist, error)
	GetTherapist(ctx context.Context, id uuid.UUID) (*models.Therapist, error)
	SaveTherapist(ctx context.Context, therapist *models.Therapist) error
	DeleteTherapist(ctx context.Context, id uuid.UUID) error
}

type CustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required,phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
	IsVip   bool   `json:"isVip"`
}

type ServiceInput struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	NormalPrice  int64  `json:"normalPrice" binding:"min=0"`
	PromoPrice   *int64 `json:"promoPrice"`
	Duration     int    `json:"duration" binding:"min=0"`
	TherapistFee int64  `json:"therapistFee" binding:"min=0"`
	IsActive     *bool  `json:"isActive"`
}

type TherapistInput struct {
	Initial             string  `json:"initial" binding:"required,max=8"`
	FullName            string  `json:"fullName" binding:"required"`
	Phone               string  `json:"phone" binding:"omitempty,phone"`
	BaseFeePerTreatment int64   `json:"baseFeePerTreatment" binding:"min=0"`
	CommissionRate      float64 `json:"commissionRate" binding:"min=0,max=1"`
	IsActive            *bool   `json:"isActive"`
}

// CatalogService manages customers, services and therapists. Deletes are
// soft so treatment history keeps resolving.
type CatalogService struct {
	store  CatalogStore
	logger *slog.Logger
}

func NewCatalogService(store CatalogStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

func (in *CustomerInput) apply(c *models.Customer) error {
	name := strings.TrimSpace(in.Name)
	phone := utils.NormalizePhone(in.Phone)
	if name == "" {
		return validationError("name is required")
	}
	if !utils.ValidatePhone(phone) {
		return validationError("phone %q is not a valid phone number", in.Phone)
	}
	c.Name = name
	c.Phone = phone
	c.Email = strings.TrimSpace(in.Email)
	c.Address = strings.TrimSpace(in.Address)
	c.IsVip = in.IsVip
	return nil
}

func (s *CatalogService) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := in.apply(&customer); err != nil {
		return nil, err
	}
	if err := s.store.CreateCustomer(ctx, &customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", "customer_id", customer.ID)
	return &customer, nil
}

func (s *CatalogService) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx, strings.TrimSpace(search))
}

func (s *CatalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, id uuid.UUID, in CustomerInput) (*models.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(customer); err != nil {
		return nil, err
	}
	if err := s.store.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CatalogService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteCustomer(ctx, id)
}

func (in *ServiceInput) apply(svc *models.Service) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return validationError("name is required")
	}
	if in.NormalPrice < 0 || in.TherapistFee < 0 || in.Duration < 0 {
		return validationError("normalPrice, therapistFee and duration must not be negative")
	}
	if in.PromoPrice != nil && (*in.PromoPrice < 0 || *in.PromoPrice > in.NormalPrice) {
		return validationError("promoPrice must be between 0 and normalPrice")
	}

	svc.Name = name
	svc.Category = strings.TrimSpace(in.Category)
	if svc.Category == "" {
		svc.Category = "General"
	}
	svc.NormalPrice = in.NormalPrice
	svc.PromoPrice = in.PromoPrice
	svc.Duration = in.Duration
	svc.TherapistFee = in.TherapistFee
	if in.TherapistFee > svc.EffectivePrice() {
		return validationError("therapistFee must not exceed the service price")
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	return nil
}

func (s *CatalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	svc := models.Service{IsActive: true}
	if err := in.apply(&svc); err != nil {
		return nil, err
	}
	if err := s.store.CreateService(ctx, &svc); err != nil {
		return nil, err
	}
	s.logger.Info("service created", "service_id", svc.ID)
	return &svc, nil
}

func (s *CatalogService) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return s.store.ListServices(ctx, activeOnly)
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.store.GetService(ctx, id)
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	svc, err := s.store.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(svc); err != nil {
		return nil, err
	}
	if err := s.store.SaveService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteService(ctx, id)
}

func (in *TherapistInput) apply(t *models.Therapist) error {
	fullName := strings.TrimSpace(in.FullName)
	initial := strings.ToUpper(strings.TrimSpace(in.Initial))
	if fullName == "" || initial == "" {
		return validationError("initial and fullName are required")
	}
	phone := utils.NormalizePhone(in.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		return validationError("phone %q is not a valid phone number", in.Phone)
	}
	if in.BaseFeePerTreatment < 0 {
		return validationError("baseFeePerTreatment must not be negative")
	}
	if in.CommissionRate < 0 || in.CommissionRate > 1 {
		return validationError("commissionRate must be between 0 and 1")
	}

	t.Initial = initial
	t.FullName = fullName
	t.Phone = phone
	t.BaseFeePerTreatment = in.BaseFeePerTreatment
	t.CommissionRate = in.CommissionRate
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	return nil
}

func (s *CatalogService) CreateTherapist(ctx context.Context, in TherapistInput) (*models.Therapist, error) {
	therapist := models.Therapist{IsActive: true}
	if err := in.apply(&therapist); err != nil {
		return nil, err
	}
	if err := s.store.CreateTherapist(ctx, &therapist); err != nil {
		return nil, err
	}
	s.logger.Info("therapist created", "therapist_id", therapist.ID)
	return &therapist, nil
}

func (s *CatalogService) ListTherapists(ctx context.Context, activeOnly bool) ([]models.Therapist, error) {
	return s.store.ListTherapists(ctx, activeOnly)
}

func (s *CatalogService) GetTherapist(ctx context.Context, id uuid.UUID) (*models.Therapist, error) {
	return s.store.GetTherapist(ctx, id)
}

func (s *CatalogService) UpdateTherapist(ctx context.Context, id uuid.UUID, in TherapistInput) (*models.Therapist, error) {
	therapist, err := s.store.GetTherapist(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(therapist); err != nil {
		return nil, err
	}
	if err := s.store.SaveTherapist(ctx, therapist); err != nil {
		return nil, err
	}
	return therapist, nil
}

func (s *CatalogService) DeleteTherapist(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTherapist(ctx, id)
}
