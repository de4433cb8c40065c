package services_test

import (
	"testing"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/domain"
	"taskhub/internal/services"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)

	tok, err := tokens.Issue(domain.Identity{UserID: 7, Email: "a@x.com", Role: "admin"})
	if err != nil {
		t.Fatal(err)
	}
	if tok == "" {
		t.Fatal("empty token")
	}

	claims, err := tokens.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	ident := claims.Identity()
	if ident.UserID != 7 || ident.Email != "a@x.com" || ident.Role != "admin" {
		t.Fatalf("claims lost in round trip: %+v", ident)
	}
	if claims.ID == "" {
		t.Fatal("missing jti")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := services.NewTokenService("test-secret", -time.Minute)
	tok, err := tokens.Issue(domain.Identity{UserID: 1, Email: "a@x.com", Role: "user"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tokens.Verify(tok); apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("expired token must fail with InvalidToken, got %v", err)
	}
}

func TestForeignSignatureRejected(t *testing.T) {
	issuer := services.NewTokenService("other-secret", time.Hour)
	tok, err := issuer.Issue(domain.Identity{UserID: 1, Email: "a@x.com", Role: "user"})
	if err != nil {
		t.Fatal(err)
	}

	tokens := services.NewTokenService("test-secret", time.Hour)
	if _, err := tokens.Verify(tok); apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("foreign signature must fail with InvalidToken, got %v", err)
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	tokens := services.NewTokenService("test-secret", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := tokens.Verify(tok); apperr.KindOf(err) != apperr.KindInvalidToken {
			t.Fatalf("token %q must fail with InvalidToken, got %v", tok, err)
		}
	}
}
