package models

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	PENDING_ORDER   = "pending"
	PAID_ORDER      = "paid"
	SHIPPED_ORDER   = "shipped"
	DELIVERED_ORDER = "delivered"
	CANCELLED_ORDER = "cancelled"
)

type Order struct {
	BaseModel
	UserID     uint        `json:"userId" gorm:"not null;index"`
	Status     string      `json:"status" gorm:"not null;default:pending"`
	TotalCents int64       `json:"totalCents" gorm:"not null"`
	Items      []OrderItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OrderItem snapshots the product's name and price at the time of purchase
type OrderItem struct {
	BaseModel
	OrderID        uint   `json:"orderId" gorm:"not null;index"`
	ProductID      uint   `json:"productId" gorm:"not null"`
	ProductName    string `json:"productName" gorm:"not null"`
	UnitPriceCents int64  `json:"unitPriceCents" gorm:"not null"`
	Quantity       int    `json:"quantity" gorm:"not null"`
}

type OrderItemInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=100"`
}

type OrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type orderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// CreateOrder records a pending order for the user with prices copied from the
// current catalogue. Payment happens elsewhere.
func CreateOrder(userID uint, input OrderInput) (*Order, error) {
	err := validateStruct(&input)
	if err != nil {
		return nil, err
	}

	order := Order{UserID: userID, Status: PENDING_ORDER}

	err = db.Transaction(func(tx *gorm.DB) error {
		productIDs := make([]uint, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		products := []Product{}
		if err := tx.Where("id IN ? AND active = ?", productIDs, true).Find(&products).Error; err != nil {
			return err
		}

		catalogue := make(map[uint]Product, len(products))
		for _, product := range products {
			catalogue[product.ID] = product
		}

		for _, item := range input.Items {
			product, ok := catalogue[item.ProductID]
			if !ok {
				return notFound("product")
			}

			order.Items = append(order.Items, OrderItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				UnitPriceCents: product.PriceCents,
				Quantity:       item.Quantity,
			})
			order.TotalCents += product.PriceCents * int64(item.Quantity)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return appendNotification(tx, &Notification{
			UserID:  userID,
			Type:    ORDER_UPDATE_NOTIFICATION,
			Title:   "Order received",
			Message: fmt.Sprintf("Order #%d has been received and is awaiting payment.", order.ID),
			OrderID: &order.ID,
		})
	})
	if err != nil {
		return nil, translateError(err, "order")
	}

	return &order, nil
}

func OrdersFor(userID uint) ([]Order, error) {
	orders := []Order{}
	err := db.Preload("Items").Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&orders).Error
	if err != nil {
		return nil, translateError(err, "order")
	}

	return orders, nil
}

// UpdateOrderStatus moves an order to status and tells the owner. Paying for a
// product that grants a higher subscription tier upgrades the owner.
func UpdateOrderStatus(orderID uint, status string) (*Order, error) {
	input := orderStatusInput{Status: status}
	err := validateStruct(&input)
	if err != nil {
		return nil, err
	}

	order := Order{}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}

		if order.Status == input.Status {
			return nil
		}

		if err := tx.Model(&Order{}).Where("id = ?", order.ID).Update("status", input.Status).Error; err != nil {
			return err
		}
		order.Status = input.Status

		err := appendNotification(tx, &Notification{
			UserID:  order.UserID,
			Type:    ORDER_UPDATE_NOTIFICATION,
			Title:   "Order " + input.Status,
			Message: fmt.Sprintf("Order #%d is now %s.", order.ID, input.Status),
			OrderID: &order.ID,
		})
		if err != nil {
			return err
		}

		if input.Status != PAID_ORDER {
			return nil
		}

		return upgradeTierForOrder(tx, &order)
	})
	if err != nil {
		return nil, translateError(err, "order")
	}

	return &order, nil
}

func upgradeTierForOrder(tx *gorm.DB, order *Order) error {
	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	products := []Product{}
	err := tx.Where("id IN ? AND tier <> ?", productIDs, "").Find(&products).Error
	if err != nil {
		return err
	}

	owner := User{}
	if err := tx.First(&owner, "id = ?", order.UserID).Error; err != nil {
		return err
	}

	granted := owner.SubscriptionTier
	for _, product := range products {
		if tierRank[product.Tier] > tierRank[granted] {
			granted = product.Tier
		}
	}

	if granted == owner.SubscriptionTier {
		return nil
	}

	err = tx.Model(&User{}).Where("id = ?", owner.ID).Update("subscription_tier", granted).Error
	if err != nil {
		return err
	}

	return appendNotification(tx, &Notification{
		UserID:  owner.ID,
		Type:    SUBSCRIPTION_UPDATE_NOTIFICATION,
		Title:   "Subscription upgraded",
		Message: "Your subscription is now " + granted + ".",
		OrderID: &order.ID,
	})
}
