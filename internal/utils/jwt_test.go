package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "student", 2)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(tok.Exp); until < time.Hour || until > 3*time.Hour {
		t.Errorf("exp %v not ~2h out", tok.Exp)
	}

	uid, role, err := ParseSessionToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 42 || role != "student" {
		t.Errorf("claims = (%d, %q), want (42, student)", uid, role)
	}
}

func TestParseSessionTokenRejectsTampering(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "student", 2)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := ParseSessionToken("wrong", tok.Token); err == nil {
		t.Error("token accepted with wrong secret")
	}
	if _, _, err := ParseSessionToken("secret", tok.Token+"x"); err == nil {
		t.Error("token accepted with mangled signature")
	}
	if _, _, err := ParseSessionToken("secret", "garbage"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "student", -1)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := ParseSessionToken("secret", tok.Token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in the clear")
	}
	if !VerifyPassword(hash, "secret123") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "secret124") {
		t.Error("wrong password accepted")
	}
}
