package account

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/shared"
)

// Gender of a profile owner
type Gender string

// Gender values
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid reports whether g is a known gender
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// ParseGender converts a string to a Gender
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", shared.NewDomainError("INVALID_GENDER", "\""+s+"\" is not a valid choice.")
	}
	return g, nil
}

const (
	nicknameMaxLength     = 10
	jobMaxLength          = 30
	nationalCodeMaxLength = 10
)

// Profile holds demographic details for exactly one user.
// A user row cannot be deleted while its profile exists.
type Profile struct {
	shared.BaseEntity
	UserID       uuid.UUID
	Gender       *Gender
	Nickname     *string
	Job          *string
	BirthDate    *time.Time
	NationalCode *string
	IsComplete   bool
}

// NewProfile creates an empty, incomplete profile for a user
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Gender       *string
	Nickname     *string
	Job          *string
	BirthDate    *time.Time
	NationalCode *string
	IsComplete   *bool
}

// Update validates and applies the given changes. Nothing is applied if any field is invalid.
func (p *Profile) Update(update ProfileUpdate) error {
	verr := &shared.ValidationError{}

	var gender *Gender
	if update.Gender != nil && *update.Gender != "" {
		g, err := ParseGender(*update.Gender)
		if err != nil {
			verr.Add("gender", err.Error())
		} else {
			gender = &g
		}
	}
	checkMaxLength(verr, "nickname", update.Nickname, nicknameMaxLength)
	checkMaxLength(verr, "job", update.Job, jobMaxLength)
	checkMaxLength(verr, "national_code", update.NationalCode, nationalCodeMaxLength)
	if update.BirthDate != nil && update.BirthDate.After(time.Now()) {
		verr.Add("birth_date", "Birth date cannot be in the future.")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	if update.Gender != nil {
		p.Gender = gender
	}
	if update.Nickname != nil {
		p.Nickname = emptyToNil(*update.Nickname)
	}
	if update.Job != nil {
		p.Job = emptyToNil(*update.Job)
	}
	if update.NationalCode != nil {
		p.NationalCode = emptyToNil(*update.NationalCode)
	}
	if update.BirthDate != nil {
		d := update.BirthDate.UTC().Truncate(24 * time.Hour)
		p.BirthDate = &d
	}
	if update.IsComplete != nil {
		p.IsComplete = *update.IsComplete
	}
	p.Touch()
	return nil
}

// MarkComplete sets the completion flag
func (p *Profile) MarkComplete(complete bool) {
	p.IsComplete = complete
	p.Touch()
}

func checkMaxLength(verr *shared.ValidationError, field string, value *string, max int) {
	if value == nil {
		return
	}
	if utf8.RuneCountInString(*value) > max {
		verr.Add(field, "Ensure this value has at most "+strconv.Itoa(max)+" characters.")
	}
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
