package services

import (
	"errors"
	"testing"

	"github.com/tobyshem/symtrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubAuthUserRepo struct {
	users     []models.User
	nextID    uint
	createErr error
}

func (stub *stubAuthUserRepo) ExistsByNormalizedEmail(email string) (bool, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubAuthUserRepo) FindByNormalizedEmail(email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthUserRepo) FindByID(userID uint) (models.User, error) {
	for _, user := range stub.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubAuthUserRepo) Create(user *models.User) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	stub.nextID++
	user.ID = stub.nextID
	stub.users = append(stub.users, *user)
	return nil
}

func (stub *stubAuthUserRepo) DeleteAccountAndRelatedData(userID uint) error {
	kept := stub.users[:0]
	for _, user := range stub.users {
		if user.ID != userID {
			kept = append(kept, user)
		}
	}
	stub.users = kept
	return nil
}

func TestRegisterUserNormalizesEmailAndHashesPassword(t *testing.T) {
	repo := &stubAuthUserRepo{}
	service := NewAuthService(repo)

	user, err := service.RegisterUser("  Toby@Example.COM ", "StrongPass1")
	if err != nil {
		t.Fatalf("RegisterUser() unexpected error: %v", err)
	}
	if user.Email != "toby@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "StrongPass1" || user.PasswordHash == "" {
		t.Fatal("expected the password to be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("StrongPass1")) != nil {
		t.Fatal("expected the hash to verify against the original password")
	}
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	repo := &stubAuthUserRepo{}
	service := NewAuthService(repo)

	if _, err := service.RegisterUser("toby@example.com", "StrongPass1"); err != nil {
		t.Fatalf("RegisterUser() unexpected error: %v", err)
	}
	if _, err := service.RegisterUser("TOBY@example.com", "OtherPass1"); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestRegisterUserDistinguishesCreateFailures(t *testing.T) {
	repo := &stubAuthUserRepo{createErr: gorm.ErrDuplicatedKey}
	service := NewAuthService(repo)
	if _, err := service.RegisterUser("toby@example.com", "StrongPass1"); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected a unique violation to surface as ErrEmailAlreadyRegistered, got %v", err)
	}

	repo.createErr = errors.New("disk I/O error")
	_, err := service.RegisterUser("toby@example.com", "StrongPass1")
	if !errors.Is(err, ErrRemoteOperationFailed) {
		t.Fatalf("expected a storage failure to surface as ErrRemoteOperationFailed, got %v", err)
	}
	if errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatal("expected a storage failure not to masquerade as a conflict")
	}
}

func TestRegisterUserRejectsWeakPasswords(t *testing.T) {
	service := NewAuthService(&stubAuthUserRepo{})
	for _, password := range []string{"Short1", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		if _, err := service.RegisterUser("toby@example.com", password); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword for %q, got %v", password, err)
		}
	}
}

func TestAuthenticateDoesNotRevealWhichPartFailed(t *testing.T) {
	repo := &stubAuthUserRepo{}
	service := NewAuthService(repo)
	if _, err := service.RegisterUser("toby@example.com", "StrongPass1"); err != nil {
		t.Fatalf("RegisterUser() unexpected error: %v", err)
	}

	if _, err := service.Authenticate("nobody@example.com", "StrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for unknown email, got %v", err)
	}
	if _, err := service.Authenticate("toby@example.com", "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for wrong password, got %v", err)
	}

	user, err := service.Authenticate(" Toby@example.com ", "StrongPass1")
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if user.Email != "toby@example.com" {
		t.Fatalf("unexpected authenticated user: %+v", user)
	}
}

func TestDeleteAccountRequiresPasswordConfirmation(t *testing.T) {
	repo := &stubAuthUserRepo{}
	service := NewAuthService(repo)
	user, err := service.RegisterUser("toby@example.com", "StrongPass1")
	if err != nil {
		t.Fatalf("RegisterUser() unexpected error: %v", err)
	}

	if err := service.DeleteAccount(user.ID, "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatal("expected the account to survive a failed confirmation")
	}

	if err := service.DeleteAccount(user.ID, "StrongPass1"); err != nil {
		t.Fatalf("DeleteAccount() unexpected error: %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatal("expected the account to be removed")
	}
}

func TestFindByIDUnknownUser(t *testing.T) {
	service := NewAuthService(&stubAuthUserRepo{})
	if _, err := service.FindByID(42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNormalizeAuthEmail(t *testing.T) {
	if got := NormalizeAuthEmail("  User@Example.Com "); got != "user@example.com" {
		t.Fatalf("NormalizeAuthEmail() = %q", got)
	}
	for _, raw := range []string{"", "   ", "not-an-email", "missing@domain@twice"} {
		if got := NormalizeAuthEmail(raw); got != "" {
			t.Fatalf("expected %q to normalize to empty, got %q", raw, got)
		}
	}
}
