package entity

// Trip is read-only from the booking flow's perspective
type Trip struct {
	Base
	Name        string  `bson:"name"`
	Destination string  `bson:"destination"`
	Price       float64 `bson:"price"`
	Image       string  `bson:"image"`
	IsActive    bool    `bson:"is_active"`
}
