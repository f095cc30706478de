package account

import (
	"bufio"
	_ "embed"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/painless/shop/internal/domain/shared"
)

// DefaultPasswordMinLength is used when a policy has no minimum set
const DefaultPasswordMinLength = 8

// maxSimilarity is the quick-ratio at which a password counts as too similar to a user attribute
const maxSimilarity = 0.7

//go:embed common_passwords.txt
var commonPasswordsFile string

var (
	commonPasswords  = loadCommonPasswords(commonPasswordsFile)
	nonWordSeparator = regexp.MustCompile(`\W+`)
)

// PasswordPolicy validates raw passwords before they are hashed
type PasswordPolicy struct {
	MinLength int
}

// NewPasswordPolicy creates a policy with the given minimum length
func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	return PasswordPolicy{MinLength: minLength}
}

// Validate runs every password check and reports all failures on the "password" field.
// user may be nil, in which case the similarity check is skipped.
func (p PasswordPolicy) Validate(password string, user *User) error {
	verr := &shared.ValidationError{}

	minLength := p.MinLength
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	if utf8.RuneCountInString(password) < minLength {
		verr.Add("password", "This password is too short. It must contain at least "+strconv.Itoa(minLength)+" characters.")
	}
	if user != nil {
		if attr := similarAttribute(password, user); attr != "" {
			verr.Add("password", "The password is too similar to the "+attr+".")
		}
	}
	if isCommonPassword(password) {
		verr.Add("password", "This password is too common.")
	}
	if isNumeric(password) {
		verr.Add("password", "This password is entirely numeric.")
	}

	return verr.OrNil()
}

func isCommonPassword(password string) bool {
	_, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]
	return ok
}

func isNumeric(password string) bool {
	if password == "" {
		return false
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarAttribute returns the label of the first user attribute the password resembles
func similarAttribute(password string, user *User) string {
	password = strings.ToLower(password)
	attributes := []struct {
		label string
		value string
	}{
		{"phone number", user.PhoneNumber},
		{"email address", user.Email},
		{"first name", user.FirstName},
		{"last name", user.LastName},
	}

	for _, attr := range attributes {
		if attr.value == "" {
			continue
		}
		value := strings.ToLower(attr.value)
		parts := append(nonWordSeparator.Split(value, -1), value)
		for _, part := range parts {
			if part == "" || exceedsLengthRatio(password, part) {
				continue
			}
			if quickRatio(password, part) >= maxSimilarity {
				return attr.label
			}
		}
	}
	return ""
}

// exceedsLengthRatio skips parts so short relative to the password that they cannot reach maxSimilarity
func exceedsLengthRatio(password, part string) bool {
	pwdLen := utf8.RuneCountInString(password)
	partLen := utf8.RuneCountInString(part)
	bound := maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*partLen && float64(partLen) < bound
}

// quickRatio is an upper bound on sequence similarity: 2*M/T where M counts shared runes as a multiset
func quickRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int)
	for _, r := range b {
		avail[r]++
	}
	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func loadCommonPasswords(data string) map[string]struct{} {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set[strings.ToLower(line)] = struct{}{}
		}
	}
	return set
}
