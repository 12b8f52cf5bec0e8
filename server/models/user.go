package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	FREE_TIER    = "free"
	BASIC_TIER   = "basic"
	PREMIUM_TIER = "premium"
)

// tierRank orders subscription tiers from lowest to highest
var tierRank = map[string]int{
	FREE_TIER:    0,
	BASIC_TIER:   1,
	PREMIUM_TIER: 2,
}

type User struct {
	BaseModel
	Email            string         `json:"email" gorm:"not null;uniqueIndex" validate:"required,email"`
	Username         *string        `json:"username" gorm:"uniqueIndex"`
	IsAdmin          bool           `json:"isAdmin" gorm:"not null;default:false"`
	SubscriptionTier string         `json:"subscriptionTier" gorm:"not null;default:free"`
	Page             *Page          `json:"page,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Notifications    []Notification `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Orders           []Order        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type usernameInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
}

// UserUpdate holds the fields an admin may change on a user. Nil fields are left as is.
type UserUpdate struct {
	IsAdmin          *bool   `json:"isAdmin"`
	SubscriptionTier *string `json:"subscriptionTier" validate:"omitempty,oneof=free basic premium"`
	Username         *string `json:"username"`
}

func (user *User) UsernameValue() string {
	if user.Username == nil {
		return ""
	}
	return *user.Username
}

func CreateUser(user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = FREE_TIER
	}

	err := validateStruct(user)
	if err != nil {
		return err
	}

	return translateError(db.Create(user).Error, "user")
}

func FindUser(id interface{}) (*User, error) {
	user := User{}
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "user")
	}

	return &user, nil
}

func FindUserByUsername(username string) (*User, error) {
	user := User{}
	err := db.First(&user, "username = ?", strings.TrimSpace(username)).Error
	if err != nil {
		return nil, translateError(err, "user")
	}

	return &user, nil
}

func FetchUsers(page int) ([]User, *Paging, error) {
	var total int64
	users := []User{}

	err := db.Model(&User{}).Count(&total).Error
	if err != nil {
		return nil, nil, translateError(err, "users")
	}

	err = db.Scopes(paginate(page, MAX_PAGE_SIZE)).Order("users.id asc").Find(&users).Error
	if err != nil {
		return nil, nil, translateError(err, "users")
	}

	return users, newPaging(int64(page), MAX_PAGE_SIZE, total), nil
}

// SetUsername assigns candidate to the user. Keeping one's current username is
// allowed; taking another user's is a conflict. The unique index backs up the
// check for concurrent requests.
func SetUsername(userID uint, candidate string) (string, error) {
	return setUsername(db, userID, candidate)
}

func setUsername(tx *gorm.DB, userID uint, candidate string) (string, error) {
	input := usernameInput{Username: strings.TrimSpace(candidate)}
	err := validateStruct(&input)
	if err != nil {
		return "", err
	}

	var taken int64
	err = tx.Model(&User{}).Where("username = ? AND id <> ?", input.Username, userID).Count(&taken).Error
	if err != nil {
		return "", translateError(err, "user")
	}

	if taken > 0 {
		return "", &ConflictError{Message: "username is already taken"}
	}

	res := tx.Model(&User{}).Where("id = ?", userID).Update("username", input.Username)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return "", &ConflictError{Message: "username is already taken"}
		}
		return "", translateError(res.Error, "user")
	}

	if res.RowsAffected == 0 {
		return "", notFound("user")
	}

	return input.Username, nil
}

// UpdateUser applies an admin change. A tier change is announced to the user
// through the notification ledger.
func UpdateUser(id uint, update UserUpdate) (*User, error) {
	err := validateStruct(&update)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return translateError(err, "user")
		}

		if update.Username != nil {
			if _, err := setUsername(tx, user.ID, *update.Username); err != nil {
				return err
			}
		}

		data := map[string]interface{}{}
		if update.IsAdmin != nil {
			data["is_admin"] = *update.IsAdmin
		}

		tierChanged := update.SubscriptionTier != nil && *update.SubscriptionTier != user.SubscriptionTier
		if tierChanged {
			data["subscription_tier"] = *update.SubscriptionTier
		}

		if len(data) > 0 {
			if err := tx.Model(&User{}).Where("id = ?", user.ID).Updates(data).Error; err != nil {
				return translateError(err, "user")
			}
		}

		if tierChanged {
			return appendNotification(tx, &Notification{
				UserID:  user.ID,
				Type:    SUBSCRIPTION_UPDATE_NOTIFICATION,
				Title:   "Subscription updated",
				Message: "Your subscription is now " + *update.SubscriptionTier + ".",
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return FindUser(id)
}

// DeleteUser removes the user together with the page, every page child,
// notifications and orders.
func DeleteUser(id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		pageIDs := tx.Model(&Page{}).Select("id").Where("user_id = ?", id)
		for _, child := range []interface{}{&Medicine{}, &Allergy{}, &Diagnosis{}, &EmergencyContact{}} {
			if err := tx.Where("page_id IN (?)", pageIDs).Delete(child).Error; err != nil {
				return translateError(err, "page")
			}
		}

		orderIDs := tx.Model(&Order{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&OrderItem{}).Error; err != nil {
			return translateError(err, "order")
		}

		for _, owned := range []interface{}{&Order{}, &Notification{}, &Page{}} {
			if err := tx.Where("user_id = ?", id).Delete(owned).Error; err != nil {
				return translateError(err, "user")
			}
		}

		res := tx.Delete(&User{}, id)
		if res.Error != nil {
			return translateError(res.Error, "user")
		}

		if res.RowsAffected == 0 {
			return notFound("user")
		}

		return nil
	})
}
