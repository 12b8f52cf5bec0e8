package models

type Product struct {
	BaseModel
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents" gorm:"not null"`
	// Tier is the subscription tier granted once an order for the product is paid
	Tier   string `json:"tier,omitempty"`
	Active bool   `json:"active" gorm:"not null"`
}

func ActiveProducts() ([]Product, error) {
	products := []Product{}
	err := db.Where("active = ?", true).Order("id asc").Find(&products).Error
	if err != nil {
		return nil, translateError(err, "product")
	}

	return products, nil
}
