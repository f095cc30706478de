package account

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/infrastructure/telemetry"
)

// RegistrationService signs up new customers
type RegistrationService struct {
	manager *UserManager
	users   account.UserRepository
	policy  account.PasswordPolicy
	metrics *telemetry.AccountMetrics
	logger  *zap.Logger
}

// NewRegistrationService creates a registration service. metrics may be nil.
func NewRegistrationService(
	manager *UserManager,
	users account.UserRepository,
	policy account.PasswordPolicy,
	metrics *telemetry.AccountMetrics,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		manager: manager,
		users:   users,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// Register validates the whole form and creates the user.
// Every failing field is reported in a single *shared.ValidationError.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*account.User, error) {
	log := logger.Enrich(ctx, s.logger)
	verr := &shared.ValidationError{}

	phone := strings.TrimSpace(input.PhoneNumber)
	candidate, err := account.NewUser(phone, "")
	if err != nil {
		verr.Add("phone_number", err.Error())
		candidate = nil
	} else {
		if err := candidate.SetEmail(input.Email); err != nil {
			verr.Add("email", err.Error())
		}
		exists, err := s.users.ExistsByPhoneNumber(ctx, phone)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("phone_number", ErrPhoneNumberTaken.Message)
			log.Info("Registration with an existing phone number",
				logger.Phone(phone),
				zap.String("client_ip", input.IP),
			)
		}
	}

	if input.Password != input.ConfirmPassword {
		verr.Add("confirm_password", "Your passwords must match")
	}
	var pverr *shared.ValidationError
	if err := s.policy.Validate(input.Password, candidate); errors.As(err, &pverr) {
		verr.Merge(pverr)
	}

	if verr.HasErrors() {
		log.Debug("Registration rejected", zap.Strings("fields", verr.FieldNames()))
		return nil, verr
	}

	user, err := s.manager.CreateUser(ctx, phone, input.Password, UserExtra{Email: input.Email})
	if err != nil {
		if errors.Is(err, ErrPhoneNumberTaken) {
			return nil, shared.NewValidationError("phone_number", ErrPhoneNumberTaken.Message)
		}
		return nil, err
	}

	s.metrics.RecordRegistration(ctx)
	log.Info("User registered", logger.Phone(user.PhoneNumber), zap.String("user_id", user.ID.String()))
	return user, nil
}
