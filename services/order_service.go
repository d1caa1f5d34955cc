package services

import (
	"errors"

	"github.com/mkowalczyk/prodtrack-api/models"
	"gorm.io/gorm"
)

// OrderService is the authoritative store for production orders
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service on top of the given database
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder persists a new order. The order number is globally unique;
// a duplicate fails with ErrDuplicateOrderNumber and leaves the existing
// order untouched.
func (s *OrderService) CreateOrder(order *models.Order) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).
			Where("order_number = ?", order.OrderNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateOrderNumber
		}
		return tx.Create(order).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

// FindOrderByNumber resolves an order by its unique order number
func (s *OrderService) FindOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindOrderByID resolves an order by its identifier
func (s *OrderService) FindOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns all orders, newest first
func (s *OrderService) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteOrder removes an order and all of its time logs in one transaction.
// An order owns its ledger entries; they never outlive it.
func (s *OrderService) DeleteOrder(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.TimeLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}
