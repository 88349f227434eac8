package model

// Cafe is a single listing. Field order matches the column order of the
// cafes table, so its JSON encoding is the row keyed by column name.
type Cafe struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"size:250;not null;uniqueIndex"`
	MapURL       string  `json:"map_url" gorm:"size:500;not null"`
	ImgURL       string  `json:"img_url" gorm:"size:500;not null"`
	Location     string  `json:"location" gorm:"size:250;not null"`
	Seats        string  `json:"seats" gorm:"size:250;not null"`
	HasToilet    bool    `json:"has_toilet" gorm:"not null"`
	HasWifi      bool    `json:"has_wifi" gorm:"not null"`
	HasSockets   bool    `json:"has_sockets" gorm:"not null"`
	CanTakeCalls bool    `json:"can_take_calls" gorm:"not null"`
	CoffeePrice  *string `json:"coffee_price" gorm:"size:250"`
}

// CafeColumns lists the cafes table columns in declaration order.
var CafeColumns = []string{
	"id", "name", "map_url", "img_url", "location", "seats",
	"has_toilet", "has_wifi", "has_sockets", "can_take_calls", "coffee_price",
}

// Price returns the coffee price or an empty string when unset.
func (c Cafe) Price() string {
	if c.CoffeePrice == nil {
		return ""
	}
	return *c.CoffeePrice
}
