package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonpro-api/models"
)

func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	var existing models.Customer
	if err := db.Unscoped().Where("phone = ?", customer.Phone).First(&existing).Error; err == nil {
		return fmt.Errorf("%w: customer with phone %s already exists", ErrConflict, customer.Phone)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(customer).Error
}

// ListCustomers returns customers ordered by name. A non-empty search
// filters on name or phone.
func (s *Store) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	q := db.Model(&models.Customer{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := q.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &customer, nil
}

// FindCustomerByNameAndPhone looks a customer up by the pair the feedback
// form collects.
func (s *Store) FindCustomerByNameAndPhone(ctx context.Context, name, phone string) (*models.Customer, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var customer models.Customer
	if err := db.Where("name = ? AND phone = ?", name, phone).First(&customer).Error; err != nil {
		return nil, notFound(err, "customer", phone)
	}
	return &customer, nil
}

// SaveCustomer persists profile fields. Counters are left alone; they only
// move through RecordVisit and AdjustCustomerStats.
func (s *Store) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	var clash models.Customer
	if err := db.Unscoped().Where("phone = ? AND id <> ?", customer.Phone, customer.ID).First(&clash).Error; err == nil {
		return fmt.Errorf("%w: another customer with phone %s already exists", ErrConflict, customer.Phone)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	res := db.Model(customer).Select("name", "phone", "email", "address", "is_vip").Updates(customer)
	return mustAffect(res, "customer", customer.ID)
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return mustAffect(db.Delete(&models.Customer{}, "id = ?", id), "customer", id)
}

func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&models.Customer{}).Count(&n).Error
	return n, err
}

// CountCustomersWithLoyaltyVisits counts customers whose loyalty counter is
// exactly visits.
func (s *Store) CountCustomersWithLoyaltyVisits(ctx context.Context, visits int) (int64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.Model(&models.Customer{}).Where("loyalty_visits = ?", visits).Count(&n).Error
	return n, err
}

// RecordVisit applies one loyalty visit: both visit counters +1, spending
// +amount and lastVisit = at.
func (s *Store) RecordVisit(ctx context.Context, id uuid.UUID, amount int64, at time.Time) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&models.Customer{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_visits":   gorm.Expr("total_visits + ?", 1),
			"loyalty_visits": gorm.Expr("loyalty_visits + ?", 1),
			"total_spending": gorm.Expr("total_spending + ?", amount),
			"last_visit":     at,
		})
	return mustAffect(res, "customer", id)
}

// AdjustCustomerStats moves the visit and spending counters by the given
// deltas. lastVisit is only written when non-nil.
func (s *Store) AdjustCustomerStats(ctx context.Context, id uuid.UUID, visits int, spending int64, lastVisit *time.Time) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"total_visits":   gorm.Expr("total_visits + ?", visits),
		"total_spending": gorm.Expr("total_spending + ?", spending),
	}
	if lastVisit != nil {
		updates["last_visit"] = *lastVisit
	}
	res := db.Unscoped().Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	return mustAffect(res, "customer", id)
}

// LoyaltyRewardCandidates returns customers sitting exactly on threshold who
// have not been sent a reward notice since their last visit. Customers past
// the threshold already had their notice.
func (s *Store) LoyaltyRewardCandidates(ctx context.Context, threshold int) ([]models.Customer, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var customers []models.Customer
	err = db.Where("loyalty_visits = ?", threshold).
		Where(`NOT EXISTS (
			SELECT 1 FROM notification_logs n
			WHERE n.customer_id = customers.id
			AND n.type = ? AND n.status = ?
			AND (customers.last_visit IS NULL OR n.sent_at >= customers.last_visit)
		)`, models.NotificationLoyaltyReward, models.NotificationSent).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}
