package auth

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/sewnstudio/atelier-backend/pkg/config"
	"github.com/sewnstudio/atelier-backend/pkg/enums"
	pkgerrors "github.com/sewnstudio/atelier-backend/pkg/errors"
	"github.com/sewnstudio/atelier-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newRegisterService(t *testing.T, repo *stubUserRepository) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		Tx: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return repo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func sampleRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Email:     email,
		Password:  "tailor-made-22",
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	repo := newStubUserRepository()
	svc := newRegisterService(t, repo)

	if err := svc.Register(context.Background(), sampleRegisterRequest("Jamie@Example.com")); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected user created")
	}
	if repo.created.Email != "jamie@example.com" {
		t.Fatalf("expected lowercased email got %s", repo.created.Email)
	}
	if repo.created.Role != enums.MemberRoleCustomer {
		t.Fatalf("expected customer role got %s", repo.created.Role)
	}
	valid, err := security.VerifyPassword("tailor-made-22", repo.created.PasswordHash)
	if err != nil || !valid {
		t.Fatal("stored hash must verify against the original password")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepository()
	seedCustomer(t, repo, "jamie@example.com", "tailor-made-22")
	svc := newRegisterService(t, repo)

	err := svc.Register(context.Background(), sampleRegisterRequest("jamie@example.com"))
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestRegisterRequiresEmail(t *testing.T) {
	svc := newRegisterService(t, newStubUserRepository())

	req := sampleRegisterRequest("   ")
	err := svc.Register(context.Background(), req)
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}
