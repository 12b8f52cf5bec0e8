package models

import (
	"time"

	"github.com/medilink/medilink/utils"
	"gorm.io/gorm"
)

const (
	ORDER_UPDATE_NOTIFICATION        = "order_update"
	SUBSCRIPTION_UPDATE_NOTIFICATION = "subscription_update"
	SYSTEM_NOTIFICATION              = "system"
)

var notificationTypes = []string{
	ORDER_UPDATE_NOTIFICATION,
	SUBSCRIPTION_UPDATE_NOTIFICATION,
	SYSTEM_NOTIFICATION,
}

// Notification is an append-only ledger entry; only Read ever changes.
type Notification struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Type      string    `json:"type" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message" gorm:"not null"`
	OrderID   *uint     `json:"orderId,omitempty"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// Notify appends a notification for userID. Unknown types are recorded as system.
func Notify(userID uint, notificationType, title, message string, orderID *uint) (*Notification, error) {
	notification := Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		OrderID: orderID,
	}

	err := appendNotification(db, &notification)
	if err != nil {
		return nil, err
	}

	return &notification, nil
}

func appendNotification(tx *gorm.DB, notification *Notification) error {
	notification.Type = utils.ValueOrDefault(notification.Type, notificationTypes, SYSTEM_NOTIFICATION)
	notification.Read = false

	return translateError(tx.Create(notification).Error, "notification")
}

// NotificationsFor lists the user's notifications newest first. The unread
// count is derived from the same list.
func NotificationsFor(userID uint) (*NotificationFeed, error) {
	feed := NotificationFeed{Notifications: []Notification{}}

	err := db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&feed.Notifications).Error
	if err != nil {
		return nil, translateError(err, "notification")
	}

	for _, notification := range feed.Notifications {
		if !notification.Read {
			feed.UnreadCount++
		}
	}

	return &feed, nil
}

// MarkNotificationRead flags one of the user's notifications as read. Marking
// an already read notification succeeds.
func MarkNotificationRead(userID, notificationID uint) error {
	res := db.Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return translateError(res.Error, "notification")
	}

	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	err := db.Model(&Notification{}).Where("id = ? AND user_id = ?", notificationID, userID).Count(&count).Error
	if err != nil {
		return translateError(err, "notification")
	}

	if count == 0 {
		return notFound("notification")
	}

	return nil
}

func MarkAllNotificationsRead(userID uint) error {
	err := db.Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error

	return translateError(err, "notification")
}
