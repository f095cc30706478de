package shop

import "github.com/google/uuid"

// Address is a delivery address saved by a user
type Address struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Country             string
	Province            string
	City                string
	PostalAddress       string
	PostalCode          string
	HouseNumber         string
	BuildingUnit        string
	ReceiverFirstName   string
	ReceiverLastName    string
	ReceiverPhoneNumber string
	IsDefault           bool
}

// ReceiverName joins the receiver's names
func (a *Address) ReceiverName() string {
	if a.ReceiverLastName == "" {
		return a.ReceiverFirstName
	}
	if a.ReceiverFirstName == "" {
		return a.ReceiverLastName
	}
	return a.ReceiverFirstName + " " + a.ReceiverLastName
}
