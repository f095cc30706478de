package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/account"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	PhoneNumber  string     `gorm:"type:varchar(15);not null;uniqueIndex"`
	Secret       uuid.UUID  `gorm:"type:uuid;not null"`
	Email        string     `gorm:"type:varchar(254)"`
	FirstName    string     `gorm:"type:varchar(30)"`
	LastName     string     `gorm:"type:varchar(30)"`
	PasswordHash string     `gorm:"column:password;type:varchar(128);not null;default:''"`
	IsActive     bool       `gorm:"not null;default:true;index"`
	IsStaff      bool       `gorm:"not null;default:false"`
	IsSuperuser  bool       `gorm:"not null;default:false"`
	LastLogin    *time.Time `gorm:"index"`
	LastLoginIP  string     `gorm:"type:varchar(45)"`
	DateJoined   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *account.User {
	return &account.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PhoneNumber:       m.PhoneNumber,
		Secret:            m.Secret,
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		PasswordHash:      m.PasswordHash,
		IsActive:          m.IsActive,
		IsStaff:           m.IsStaff,
		IsSuperuser:       m.IsSuperuser,
		LastLogin:         m.LastLogin,
		LastLoginIP:       m.LastLoginIP,
		DateJoined:        m.DateJoined,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *account.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.PhoneNumber = u.PhoneNumber
	m.Secret = u.Secret
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.PasswordHash = u.PasswordHash
	m.IsActive = u.IsActive
	m.IsStaff = u.IsStaff
	m.IsSuperuser = u.IsSuperuser
	m.LastLogin = u.LastLogin
	m.LastLoginIP = u.LastLoginIP
	m.DateJoined = u.DateJoined
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *account.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// ProfileModel is the persistence model for Profile. The user foreign key is ON DELETE RESTRICT.
type ProfileModel struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	User         *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Gender       *string    `gorm:"type:varchar(10)"`
	Nickname     *string    `gorm:"type:varchar(10)"`
	Job          *string    `gorm:"type:varchar(30)"`
	BirthDate    *time.Time `gorm:"type:date"`
	NationalCode *string    `gorm:"type:varchar(10)"`
	IsComplete   bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *account.Profile {
	p := &account.Profile{
		BaseEntity:   m.BaseModel.ToDomain(),
		UserID:       m.UserID,
		Nickname:     m.Nickname,
		Job:          m.Job,
		BirthDate:    m.BirthDate,
		NationalCode: m.NationalCode,
		IsComplete:   m.IsComplete,
	}
	if m.Gender != nil {
		g := account.Gender(*m.Gender)
		p.Gender = &g
	}
	return p
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(p *account.Profile) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.UserID = p.UserID
	m.Nickname = p.Nickname
	m.Job = p.Job
	m.BirthDate = p.BirthDate
	m.NationalCode = p.NationalCode
	m.IsComplete = p.IsComplete
	m.Gender = nil
	if p.Gender != nil {
		g := string(*p.Gender)
		m.Gender = &g
	}
}

// ProfileModelFromDomain creates a persistence model from a domain Profile
func ProfileModelFromDomain(p *account.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(p)
	return m
}
