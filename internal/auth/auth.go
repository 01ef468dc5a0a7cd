// Package auth handles registration, login and profile updates for
// storefront users.
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	store *store.Store
	log   *logrus.Entry
}

func New(st *store.Store, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: st, log: log.WithField("component", "auth")}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register validates the input, rejects an email already on file, and
// creates a customer-role user. Email uniqueness is only checked here, not
// enforced as a standing store invariant.
func (s *Service) Register(in RegisterInput) (models.User, error) {
	if err := validateRegistration(in); err != nil {
		return models.User{}, err
	}

	if _, err := s.store.FindUserByEmail(in.Email); err == nil {
		return models.User{}, fmt.Errorf("register %s: %w", in.Email, store.ErrDuplicateEmail)
	}

	user := s.store.CreateUser(models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     models.RoleCustomer,
	})

	s.log.WithFields(logrus.Fields{"user": user.ID, "email": user.Email}).Info("user registered")
	return user, nil
}

// Login compares the stored password directly. This is a demo stand-in;
// nothing here approximates real credential storage.
func (s *Service) Login(email, password string) (models.User, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if user.Password != password {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) UpdateProfile(id int64, patch store.UserPatch) (models.User, error) {
	if patch.Email != nil && !emailPattern.MatchString(*patch.Email) {
		return models.User{}, store.NewValidationError("email is not valid")
	}
	user, err := s.store.UpdateUser(id, patch)
	if err != nil {
		return models.User{}, fmt.Errorf("update profile %d: %w", id, err)
	}
	return user, nil
}

func validateRegistration(in RegisterInput) error {
	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.Email == "" {
		problems = append(problems, "email is required")
	} else if !emailPattern.MatchString(in.Email) {
		problems = append(problems, "email is not valid")
	}
	problems = append(problems, passwordProblems(in.Password)...)

	if len(problems) > 0 {
		return store.NewValidationError(problems...)
	}
	return nil
}

func passwordProblems(password string) []string {
	var problems []string
	if len(password) < 8 {
		problems = append(problems, "password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		problems = append(problems, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "password must contain at least one number")
	}
	return problems
}
