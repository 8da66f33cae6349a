package sealer

import "testing"

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	token, err := s.Seal("66b2f1c0a1b2c3d4e5f60718", "party@example.com")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	id, email, err := s.Open(token)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if id != "66b2f1c0a1b2c3d4e5f60718" {
		t.Errorf("booking id = %q", id)
	}
	if email != "party@example.com" {
		t.Errorf("email = %q", email)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	s, _ := New("")
	token, _ := s.Seal("66b2f1c0a1b2c3d4e5f60718", "party@example.com")

	tampered := token[:len(token)-2] + "xx"
	if _, _, err := s.Open(tampered); err == nil {
		t.Error("expected error for tampered token")
	}

	if _, _, err := s.Open("not!!base64"); err == nil {
		t.Error("expected error for malformed encoding")
	}

	if _, _, err := s.Open(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestNewRejectsBadKey(t *testing.T) {
	if _, err := New("dG9vLXNob3J0"); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := New("%%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
