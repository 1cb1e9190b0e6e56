package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/memberbase/member-registry/internal/repository"
)

type fakeVerifier struct {
	result bool
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(ctx context.Context, ssn string) (bool, error) {
	f.calls++
	return f.result, f.err
}

func newMemberServiceForTest(verifier SSNVerifier) (*MemberService, *repository.MemoryMemberRepository) {
	repo := repository.NewMemoryMemberRepository()
	return NewMemberService(repo, verifier), repo
}

func TestMemberServiceCreateStoresVerificationOutcome(t *testing.T) {
	verifier := &fakeVerifier{result: true}
	svc, _ := newMemberServiceForTest(verifier)

	in := validCreateInput()
	in.Email = "  Jane@Example.COM "
	member, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if verifier.calls != 1 {
		t.Fatalf("expected one verifier call, got %d", verifier.calls)
	}
	if !member.Verified {
		t.Fatalf("expected member verified when the authority answers positively")
	}
	if member.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %q", member.Email)
	}
	if member.ID == 0 || member.DateAdded.IsZero() {
		t.Fatalf("expected id and dateAdded assigned: %+v", member)
	}
}

func TestMemberServiceCreateRecordsNegativeVerification(t *testing.T) {
	svc, _ := newMemberServiceForTest(&fakeVerifier{result: false})

	member, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if member.Verified {
		t.Fatalf("member must still be created, unverified, on a negative answer")
	}
}

func TestMemberServiceCreateRejectsInvalidInputBeforeVerification(t *testing.T) {
	verifier := &fakeVerifier{result: true}
	svc, repo := newMemberServiceForTest(verifier)

	in := validCreateInput()
	in.SSN = "123456789"
	_, err := svc.Create(context.Background(), in)

	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier must not be called for invalid input")
	}
	members, _ := repo.List()
	if len(members) != 0 {
		t.Fatalf("rejected create must not persist anything")
	}
}

func TestMemberServiceCreatePropagatesVerifierFailure(t *testing.T) {
	verifierErr := errors.New("authority unreachable")
	svc, repo := newMemberServiceForTest(&fakeVerifier{err: verifierErr})

	if _, err := svc.Create(context.Background(), validCreateInput()); !errors.Is(err, verifierErr) {
		t.Fatalf("expected verifier error, got %v", err)
	}
	members, _ := repo.List()
	if len(members) != 0 {
		t.Fatalf("failed verification call must not persist anything")
	}
}

func TestMemberServiceCreateDuplicate(t *testing.T) {
	svc, _ := newMemberServiceForTest(&fakeVerifier{result: true})

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), validCreateInput()); !errors.Is(err, repository.ErrDuplicateMember) {
		t.Fatalf("expected ErrDuplicateMember, got %v", err)
	}
}

func TestMemberServiceUpdateMergesOnlyProvidedFields(t *testing.T) {
	svc, _ := newMemberServiceForTest(&fakeVerifier{result: false})

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	phone := "(555) 987-6543"
	verified := true
	updated, err := svc.Update(context.Background(), created.ID, UpdateMemberInput{
		Phone:    &phone,
		Verified: &verified,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone || !updated.Verified {
		t.Fatalf("patched fields not applied: %+v", updated)
	}
	if updated.Name != created.Name || updated.Email != created.Email || updated.SSN != created.SSN {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}
	if updated.ID != created.ID || !updated.DateAdded.Equal(created.DateAdded) {
		t.Fatalf("id or dateAdded changed: created=%+v updated=%+v", created, updated)
	}
}

func TestMemberServiceUpdateNormalizesEmailBeforeValidation(t *testing.T) {
	svc, _ := newMemberServiceForTest(&fakeVerifier{result: true})

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	email := "  June@Example.COM "
	updated, err := svc.Update(context.Background(), created.ID, UpdateMemberInput{Email: &email})
	if err != nil {
		t.Fatalf("padded mixed-case email must be accepted: %v", err)
	}
	if updated.Email != "june@example.com" {
		t.Fatalf("expected normalized email stored, got %q", updated.Email)
	}
}

func TestMemberServiceUpdateEmptyPatchReturnsCurrentState(t *testing.T) {
	svc, _ := newMemberServiceForTest(&fakeVerifier{result: true})

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(context.Background(), created.ID, UpdateMemberInput{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if updated.ID != created.ID || updated.Email != created.Email {
		t.Fatalf("empty patch changed state: %+v", updated)
	}
}

func TestMemberServiceUpdateNotFoundAndInvalid(t *testing.T) {
	svc, _ := newMemberServiceForTest(&fakeVerifier{result: true})

	name := "Someone"
	if _, err := svc.Update(context.Background(), 404, UpdateMemberInput{Name: &name}); !errors.Is(err, repository.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	bad := "nope"
	_, err := svc.Update(context.Background(), 404, UpdateMemberInput{SSN: &bad})
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors before any storage lookup, got %v", err)
	}
}

func TestMemberServiceFilterByVerified(t *testing.T) {
	svc, repo := newMemberServiceForTest(&fakeVerifier{result: false})

	for i := 0; i < 3; i++ {
		in := validCreateInput()
		in.Email = fmt.Sprintf("member%d@example.com", i)
		in.SSN = fmt.Sprintf("321-54-000%d", i)
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if err := repo.Update(2, map[string]any{"verified": true}); err != nil {
		t.Fatalf("mark verified: %v", err)
	}

	verified, err := svc.FilterByVerified(context.Background(), true)
	if err != nil {
		t.Fatalf("filter verified: %v", err)
	}
	unverified, err := svc.FilterByVerified(context.Background(), false)
	if err != nil {
		t.Fatalf("filter unverified: %v", err)
	}
	if len(verified) != 1 || len(unverified) != 2 {
		t.Fatalf("expected 1/2 partition, got %d/%d", len(verified), len(unverified))
	}
}
