package professional

import "testing"

// TestNewProfessional tests account creation and credential hashing
func TestNewProfessional(t *testing.T) {
	p, err := NewProfessional("Ana", "ana@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.ID.IsZero() {
		t.Error("Expected non-zero ID")
	}
	if p.Name != "Ana" {
		t.Errorf("Expected name Ana, got %s", p.Name)
	}
	if p.PasswordHash == "s3cret-pass" || p.PasswordHash == "" {
		t.Error("Expected password to be hashed")
	}
	if !p.CheckPassword("s3cret-pass") {
		t.Error("Expected correct password to verify")
	}
	if p.CheckPassword("wrong-pass") {
		t.Error("Expected wrong password to fail")
	}
}

// TestNewProfessionalDefaultsName tests the email local part fallback
func TestNewProfessionalDefaultsName(t *testing.T) {
	p, err := NewProfessional("", "Carla@Example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.Email != "carla@example.com" {
		t.Errorf("Expected lowercased email, got %s", p.Email)
	}
	if p.Name != "carla" {
		t.Errorf("Expected name derived from email, got %s", p.Name)
	}
}

// TestNewProfessionalValidation tests input validation
func TestNewProfessionalValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"Empty email", "", "s3cret-pass"},
		{"Malformed email", "not-an-email", "s3cret-pass"},
		{"Short password", "ana@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProfessional("", tt.email, tt.password); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}
