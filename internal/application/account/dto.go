package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared/valueobject"
	"github.com/painless/shop/internal/domain/shop"
)

// UserExtra holds the optional fields accepted by the user manager.
// Nil flags take the manager's defaults.
type UserExtra struct {
	Email       string
	FirstName   string
	LastName    string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// RegisterInput is the registration form
type RegisterInput struct {
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
	IP              string
}

// LoginInput is the token obtain form
type LoginInput struct {
	PhoneNumber string
	Password    string
	IP          string
}

// UserDTO is the admin view of a user
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	DateJoined  time.Time  `json:"date_joined"`
}

// ToUserDTO converts a domain user
func ToUserDTO(u *account.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		LastLogin:   u.LastLogin,
		DateJoined:  u.DateJoined,
	}
}

// ProfileDTO is the profile as returned to its owner
type ProfileDTO struct {
	Gender       *string `json:"gender"`
	Nickname     *string `json:"nickname"`
	Job          *string `json:"job"`
	BirthDate    *string `json:"birth_date"`
	NationalCode *string `json:"national_code"`
	IsComplete   bool    `json:"is_complete"`
}

// ToProfileDTO converts a domain profile. Birth dates are rendered as YYYY-MM-DD.
func ToProfileDTO(p *account.Profile) ProfileDTO {
	dto := ProfileDTO{
		Nickname:     p.Nickname,
		Job:          p.Job,
		NationalCode: p.NationalCode,
		IsComplete:   p.IsComplete,
		BirthDate:    formatDate(p.BirthDate),
	}
	if p.Gender != nil {
		g := string(*p.Gender)
		dto.Gender = &g
	}
	return dto
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

// UserCountDTO is a user with a counted quantity
type UserCountDTO struct {
	UserDTO
	Count int64 `json:"count"`
}

// UserAmountDTO is a user with a money total
type UserAmountDTO struct {
	UserDTO
	Amount valueobject.Money `json:"amount"`
}

// OrderDTO is one order in the per-user order listing
type OrderDTO struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	ReceiverName  string    `json:"receiver_name"`
	PostalAddress string    `json:"postal_address"`
	Created       time.Time `json:"created"`
}

// UserOrdersDTO is a user with their orders, oldest first
type UserOrdersDTO struct {
	UserDTO
	Orders []OrderDTO `json:"orders"`
}

// PostalAddressDTO is a (phone number, postal address) row
type PostalAddressDTO struct {
	UserID        uuid.UUID `json:"user_id"`
	PhoneNumber   string    `json:"phone_number"`
	PostalAddress *string   `json:"postal_address"`
}

// UserInfoDTO is a user with the profile gender and birth date
type UserInfoDTO struct {
	UserDTO
	Gender    *string `json:"gender"`
	BirthDate *string `json:"birth_date"`
}

// AddressDTO is a saved delivery address
type AddressDTO struct {
	ID                  uuid.UUID `json:"id"`
	Country             string    `json:"country"`
	Province            string    `json:"province"`
	City                string    `json:"city"`
	PostalAddress       string    `json:"postal_address"`
	PostalCode          string    `json:"postal_code"`
	HouseNumber         string    `json:"house_number"`
	BuildingUnit        string    `json:"building_unit"`
	ReceiverName        string    `json:"receiver_name"`
	ReceiverPhoneNumber string    `json:"receiver_phone_number"`
	IsDefault           bool      `json:"is_default"`
}

func toUserCountDTO(c account.UserCount) UserCountDTO {
	return UserCountDTO{UserDTO: ToUserDTO(c.User), Count: c.Count}
}

func toUserAmountDTO(a account.UserAmount) UserAmountDTO {
	return UserAmountDTO{UserDTO: ToUserDTO(a.User), Amount: a.Amount}
}

func toUserOrdersDTO(uo account.UserOrders) UserOrdersDTO {
	orders := make([]OrderDTO, len(uo.Orders))
	for i, o := range uo.Orders {
		orders[i] = toOrderDTO(o)
	}
	return UserOrdersDTO{UserDTO: ToUserDTO(uo.User), Orders: orders}
}

func toOrderDTO(o *shop.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID,
		Status:        o.Status.String(),
		ReceiverName:  o.ReceiverName,
		PostalAddress: o.PostalAddress,
		Created:       o.Created,
	}
}

func toPostalAddressDTO(p account.UserPostalAddress) PostalAddressDTO {
	return PostalAddressDTO{UserID: p.UserID, PhoneNumber: p.PhoneNumber, PostalAddress: p.PostalAddress}
}

func toUserInfoDTO(info account.UserInfo) UserInfoDTO {
	dto := UserInfoDTO{UserDTO: ToUserDTO(info.User), BirthDate: formatDate(info.BirthDate)}
	if info.Gender != nil {
		g := string(*info.Gender)
		dto.Gender = &g
	}
	return dto
}

func toAddressDTO(a *shop.Address) AddressDTO {
	return AddressDTO{
		ID:                  a.ID,
		Country:             a.Country,
		Province:            a.Province,
		City:                a.City,
		PostalAddress:       a.PostalAddress,
		PostalCode:          a.PostalCode,
		HouseNumber:         a.HouseNumber,
		BuildingUnit:        a.BuildingUnit,
		ReceiverName:        a.ReceiverName(),
		ReceiverPhoneNumber: a.ReceiverPhoneNumber,
		IsDefault:           a.IsDefault,
	}
}
