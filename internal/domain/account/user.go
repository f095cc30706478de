package account

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/painless/shop/internal/domain/shared"
)

// Password cost for bcrypt
const bcryptCost = 12

const (
	phoneNumberMaxLength = 15
	nameMinLength        = 3
	nameMaxLength        = 30
	emailMaxLength       = 254
)

var (
	iranPhoneNumberRegex = regexp.MustCompile(`^(\+98|0)?9\d{9}$`)
	emailRegex           = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is a shop customer or operator identified by phone number.
// It is the aggregate root for account operations.
type User struct {
	shared.BaseAggregateRoot
	PhoneNumber  string
	Secret       uuid.UUID // token for email and OTP verification, fixed at creation
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time
	LastLoginIP  string
	DateJoined   time.Time
}

// NewUser creates an active user. An empty password leaves the account without a usable password.
func NewUser(phoneNumber, password string) (*User, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PhoneNumber:       phoneNumber,
		Secret:            uuid.New(),
		IsActive:          true,
	}
	user.DateJoined = user.CreatedAt

	if err := user.applyPassword(password); err != nil {
		return nil, err
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetEmail sets or clears the user's email
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = normalizeEmail(email)
	}

	u.Email = email
	u.changed("email")
	return nil
}

// SetNames sets first and last names; empty values clear them
func (u *User) SetNames(firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if err := validateName("INVALID_FIRST_NAME", "first name", firstName); err != nil {
		return err
	}
	if err := validateName("INVALID_LAST_NAME", "last name", lastName); err != nil {
		return err
	}

	u.FirstName = firstName
	u.LastName = lastName
	u.changed("first_name", "last_name")
	return nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := u.applyPassword(password); err != nil {
		return err
	}
	u.changed("password")
	return nil
}

// VerifyPassword checks a raw password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	if !u.HasUsablePassword() || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

var (
	unknownUserHash     []byte
	unknownUserHashOnce sync.Once
)

// VerifyUnknownUserPassword runs the same bcrypt comparison as VerifyPassword against a throwaway hash
// and always reports false. Logins for unregistered phone numbers take as long as a wrong password.
func VerifyUnknownUserPassword(password string) bool {
	unknownUserHashOnce.Do(func() {
		unknownUserHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(unknownUserHash, []byte(password))
	return false
}

// HasUsablePassword reports whether the account can log in with a password
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// Activate allows the user to log in again
func (u *User) Activate() {
	if u.IsActive {
		return
	}
	u.IsActive = true
	u.changed("is_active")
}

// Deactivate blocks the user from logging in without deleting the account
func (u *User) Deactivate() {
	if !u.IsActive {
		return
	}
	u.IsActive = false
	u.changed("is_active")
}

// GrantStaff sets the staff flag
func (u *User) GrantStaff(staff bool) {
	if u.IsStaff == staff {
		return
	}
	u.IsStaff = staff
	u.changed("is_staff")
}

// GrantSuperuser sets the superuser flag
func (u *User) GrantSuperuser(superuser bool) {
	if u.IsSuperuser == superuser {
		return
	}
	u.IsSuperuser = superuser
	u.changed("is_superuser")
}

// RecordLogin stores the last successful login
func (u *User) RecordLogin(ip string, at time.Time) {
	u.LastLogin = &at
	u.LastLoginIP = ip
}

// IsNormal reports whether the user is an active customer without admin rights
func (u *User) IsNormal() bool {
	return u.IsActive && !u.IsStaff && !u.IsSuperuser
}

// FullName joins first and last names
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// String returns the phone number, which is the user's identity
func (u *User) String() string {
	return u.PhoneNumber
}

func (u *User) applyPassword(password string) error {
	if password == "" {
		u.PasswordHash = ""
		return nil
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	return nil
}

// changed records an update and raises UserUpdated; consecutive changes share one event
func (u *User) changed(fields ...string) {
	u.IncrementVersion()
	for _, e := range u.GetDomainEvents() {
		if updated, ok := e.(*UserUpdatedEvent); ok {
			updated.Fields = append(updated.Fields, fields...)
			return
		}
	}
	u.AddDomainEvent(NewUserUpdatedEvent(u, fields...))
}

// ValidatePhoneNumber checks the Iranian mobile number format
func ValidatePhoneNumber(phoneNumber string) error {
	if phoneNumber == "" {
		return shared.NewDomainError("PHONE_REQUIRED", "`phone_number` must be set.")
	}
	if len(phoneNumber) > phoneNumberMaxLength {
		return shared.NewDomainError("INVALID_PHONE_NUMBER", "Ensure this field has no more than 15 characters.")
	}
	if !iranPhoneNumberRegex.MatchString(phoneNumber) {
		return shared.NewDomainError("INVALID_PHONE_NUMBER", "Enter a valid phone number.")
	}
	return nil
}

func validateName(code, label, name string) error {
	if name == "" {
		return nil
	}
	n := utf8.RuneCountInString(name)
	if n < nameMinLength {
		return shared.NewDomainError(code, "Ensure "+label+" has at least 3 characters.")
	}
	if n > nameMaxLength {
		return shared.NewDomainError(code, "Ensure "+label+" has no more than 30 characters.")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > emailMaxLength || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Enter a valid email address.")
	}
	return nil
}

// normalizeEmail lowercases the domain part only
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
