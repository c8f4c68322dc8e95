package domain

import "github.com/govalues/decimal"

type TruckStatus string

const (
	TruckStatusOpen   TruckStatus = "OPEN"
	TruckStatusClosed TruckStatus = "CLOSED"
)

type Truck struct {
	ID      uint64
	OwnerID uint64
	Name    string
	Status  TruckStatus
}

func (t *Truck) IsClosed() bool {
	return t.Status == TruckStatusClosed
}

// DisplayName falls back to a generic title for unnamed trucks.
func (t *Truck) DisplayName() string {
	if t.Name == "" {
		return "Food Truck"
	}
	return t.Name
}

type Item struct {
	ID          uint64
	TruckID     uint64
	Name        string
	Price       decimal.Decimal
	IsAvailable bool
}

// User carries the contact data of a client or an owner.
type User struct {
	ID       uint64
	Username string
	Email    string
	Phone    string
}
