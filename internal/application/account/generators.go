package account

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/infrastructure/config"
)

// DefaultGeneratorBatchSize is the number of rows generated between progress reports
const DefaultGeneratorBatchSize = 500

var (
	birthDateFrom = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	birthDateTo   = time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Generator fills the database with a demo superuser and fake customers
type Generator struct {
	manager  *UserManager
	users    account.UserRepository
	profiles account.ProfileRepository
	faker    *gofakeit.Faker
	logger   *zap.Logger
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(
	manager *UserManager,
	users account.UserRepository,
	profiles account.ProfileRepository,
	seed uint64,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		manager:  manager,
		users:    users,
		profiles: profiles,
		faker:    gofakeit.New(seed),
		logger:   logger,
	}
}

// CreateDemoUser creates the configured superuser. It fails with ErrPhoneNumberTaken when it already exists.
func (g *Generator) CreateDemoUser(ctx context.Context, seed config.SeedConfig) (*account.User, error) {
	user, err := g.manager.CreateSuperuser(ctx, seed.BaseUserPhoneNumber, seed.BasePassword, UserExtra{})
	if err != nil {
		return nil, err
	}
	g.logger.Info("Demo user created", zap.String("phone_number", user.PhoneNumber))
	return user, nil
}

// CreateFakeUsers creates total non-staff users with unique phone numbers.
// Fake users have no usable password and no profile; see CreateFakeProfiles.
func (g *Generator) CreateFakeUsers(ctx context.Context, total, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultGeneratorBatchSize
	}

	seen := make(map[string]struct{}, total)
	created := 0
	for created < total {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		phone := g.uniquePhoneNumber(seen)
		exists, err := g.users.ExistsByPhoneNumber(ctx, phone)
		if err != nil {
			return created, fmt.Errorf("failed to check phone number: %w", err)
		}
		if exists {
			continue
		}

		user, err := g.fakeUser(phone)
		if err != nil {
			return created, err
		}
		if err := g.users.Create(ctx, user); err != nil {
			if errors.Is(err, ErrPhoneNumberTaken) {
				continue
			}
			return created, err
		}
		created++

		if created%batch == 0 || created == total {
			g.logger.Info("Fake users created", zap.Int("created", created), zap.Int("total", total))
		}
	}
	return created, nil
}

func (g *Generator) uniquePhoneNumber(seen map[string]struct{}) string {
	for {
		phone := "09" + g.faker.Numerify("#########")
		if _, ok := seen[phone]; !ok {
			seen[phone] = struct{}{}
			return phone
		}
	}
}

func (g *Generator) fakeUser(phone string) (*account.User, error) {
	user, err := account.NewUser(phone, "")
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(g.faker.Email()); err != nil {
		g.logger.Debug("Skipping invalid fake email", zap.Error(err))
	}
	if err := user.SetNames(g.fakeName(g.faker.FirstName), g.fakeName(g.faker.LastName)); err != nil {
		return nil, err
	}
	if !g.faker.Bool() {
		user.Deactivate()
	}
	user.ClearDomainEvents()
	return user, nil
}

// fakeName draws names until one fits the 3..30 length rule, falling back to no name
func (g *Generator) fakeName(draw func() string) string {
	for range 10 {
		name := draw()
		if n := utf8.RuneCountInString(name); n >= 3 && n <= 30 {
			return name
		}
	}
	return ""
}

// CreateFakeProfiles fills a random profile for every user that has none, batch users at a time
func (g *Generator) CreateFakeProfiles(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = DefaultGeneratorBatchSize
	}

	created := 0
	for {
		ids, err := g.profiles.FindUsersWithoutProfile(ctx, batch)
		if err != nil {
			return created, fmt.Errorf("failed to find users without profile: %w", err)
		}
		if len(ids) == 0 {
			return created, nil
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return created, err
			}
			profile := account.NewProfile(id)
			if err := profile.Update(g.fakeProfile()); err != nil {
				return created, err
			}
			if err := g.profiles.Save(ctx, profile); err != nil {
				return created, fmt.Errorf("failed to save profile: %w", err)
			}
			created++
		}
		g.logger.Info("Fake profiles created", zap.Int("created", created))
	}
}

func (g *Generator) fakeProfile() account.ProfileUpdate {
	gender := g.faker.RandomString([]string{string(account.GenderMale), string(account.GenderFemale)})
	nickname := truncate(g.faker.Username(), 10)
	job := truncate(g.faker.JobTitle(), 30)
	nationalCode := g.faker.Numerify("##########")
	complete := g.faker.Bool()
	birthDate := g.faker.DateRange(birthDateFrom, birthDateTo)

	return account.ProfileUpdate{
		Gender:       &gender,
		Nickname:     &nickname,
		Job:          &job,
		BirthDate:    &birthDate,
		NationalCode: &nationalCode,
		IsComplete:   &complete,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
