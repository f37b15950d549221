package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"identity-svc/internal/domain"
	"identity-svc/internal/repository"
	"identity-svc/internal/validators"
)

// UserService coordina registro, autenticación y listado de usuarios.
type UserService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	hasher   PasswordHasher
	validate *validator.Validate
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger:   logger,
		users:    users,
		hasher:   hasher,
		validate: newValidator(),
	}
}

// MaxPasswordBytes es el límite de entrada de bcrypt; una contraseña más larga se
// rechaza en vez de truncarse.
const MaxPasswordBytes = 72

type RegisterInput struct {
	UserName       string `validate:"required"`
	Email          string `validate:"required,account_email"`
	SecondaryEmail string
	Password       string `validate:"required"`
}

var (
	ErrValidation         = errors.New("validation error")
	ErrMissingFields      = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password exceeds %d bytes", ErrValidation, MaxPasswordBytes)
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")
)

func newValidator() *validator.Validate {
	v := validator.New()
	// RegisterValidation solo falla con un tag vacío o reservado.
	_ = v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return validators.IsEmail(fl.Field().String())
	})
	return v
}

// Register valida, comprueba unicidad, hashea e inserta. La comprobación previa y el
// INSERT no son atómicos: si dos registros con el mismo email pasan la comprobación,
// la restricción UNIQUE rechaza al perdedor y se devuelve ErrRegistrationFailed.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil || s.hasher == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = normalizeEmail(input.Email)
	input.SecondaryEmail = strings.TrimSpace(input.SecondaryEmail)

	if err := s.validateRegister(input); err != nil {
		return domain.User{}, err
	}

	_, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	var secondary *string
	if input.SecondaryEmail != "" {
		secondary = &input.SecondaryEmail
	}

	created, err := s.users.Create(ctx, domain.User{
		UserName:       input.UserName,
		Email:          input.Email,
		SecondaryEmail: secondary,
		PasswordHash:   passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			s.logger.Warn("registration lost uniqueness race", zap.String("email", input.Email))
		}
		return domain.User{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	return created.Public(), nil
}

// Authenticate devuelve ErrInvalidCredentials tanto si el email no existe como si la
// contraseña no coincide; en el primer caso igual se ejecuta una verificación bcrypt.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil || s.hasher == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.hasher.VerifyDummy(password)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.logger.Info("password hash below current cost", zap.String("user_id", user.ID))
	}
	return user.Public(), nil
}

// List devuelve todos los usuarios; una lista vacía no es un error.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	if s.users == nil {
		return nil, errors.New("user service not configured")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

func (s *UserService) validateRegister(input RegisterInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		if len(input.Password) > MaxPasswordBytes {
			return ErrPasswordTooLong
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s", ErrMissingFields, strings.ToLower(fe.Field()))
		}
	}
	return ErrInvalidEmail
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
