package auth

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New()
	return New(st, log), st
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Jo Smith",
		Email:    "jo@example.com",
		Password: "Sup3rSecret",
	}
}

func TestRegister(t *testing.T) {
	svc, st := newTestService(t)

	user, err := svc.Register(validInput())
	require.NoError(t, err)
	require.Equal(t, models.RoleCustomer, user.Role)
	require.NotZero(t, user.ID)

	stored, err := st.FindUserByEmail("jo@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(validInput())
	require.NoError(t, err)

	_, err = svc.Register(validInput())
	require.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name  string
		edit  func(*RegisterInput)
		wants string
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }, "name is required"},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email is required"},
		{"bad email", func(in *RegisterInput) { in.Email = "not an email" }, "email is not valid"},
		{"short password", func(in *RegisterInput) { in.Password = "Ab1" }, "at least 8 characters"},
		{"no uppercase", func(in *RegisterInput) { in.Password = "lowercase1" }, "uppercase"},
		{"no lowercase", func(in *RegisterInput) { in.Password = "UPPERCASE1" }, "lowercase"},
		{"no digit", func(in *RegisterInput) { in.Password = "NoDigitsHere" }, "number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)

			_, err := svc.Register(in)
			var validation *store.ValidationError
			require.ErrorAs(t, err, &validation)
			require.Contains(t, err.Error(), tc.wants)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register(validInput())
	require.NoError(t, err)

	user, err := svc.Login("jo@example.com", "Sup3rSecret")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = svc.Login("jo@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "Sup3rSecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(validInput())
	require.NoError(t, err)

	phone := "+1-555-0101"
	updated, err := svc.UpdateProfile(user.ID, store.UserPatch{Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)
	require.Equal(t, user.Email, updated.Email)

	bad := "not an email"
	_, err = svc.UpdateProfile(user.ID, store.UserPatch{Email: &bad})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.UpdateProfile(99, store.UserPatch{Phone: &phone})
	require.ErrorIs(t, err, store.ErrUserNotFound)
}
