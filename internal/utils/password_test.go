package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	h1, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (bcrypt salt)")
	}
	if !VerifyPassword(h1, "s3cret") || !VerifyPassword(h2, "s3cret") {
		t.Fatal("verify must accept the original password for both hashes")
	}
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	h, err := HashPassword("correct", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if VerifyPassword(h, "wrong") {
		t.Fatal("verify accepted a wrong password")
	}
	if VerifyPassword("not-a-bcrypt-hash", "correct") {
		t.Fatal("verify accepted a malformed hash")
	}
}

func TestRandomPassword(t *testing.T) {
	p1, err := RandomPassword(10)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(p1) != 10 {
		t.Fatalf("length = %d, want 10", len(p1))
	}
	for _, r := range p1 {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("character %q outside the alphabet", r)
		}
	}
	p2, err := RandomPassword(10)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p1 == p2 {
		t.Fatal("two generated passwords were identical")
	}
}
