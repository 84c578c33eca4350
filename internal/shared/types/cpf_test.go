package types

import "testing"

// TestParseCPF tests CPF validation
func TestParseCPF(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"Valid plain", "52998224725", false},
		{"Valid punctuated", "529.982.247-25", false},
		{"Wrong check digit", "52998224726", true},
		{"Too short", "5299822472", true},
		{"Too long", "529982247251", true},
		{"Letters", "5299822472a", true},
		{"All same digits", "11111111111", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpf, err := ParseCPF(tt.input)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for %q but got none", tt.input)
			}
			if !tt.expectError {
				if err != nil {
					t.Errorf("Expected no error for %q but got: %v", tt.input, err)
				}
				if cpf.String() != "52998224725" {
					t.Errorf("Expected normalized digits, got %q", cpf)
				}
			}
		})
	}
}

// TestCPFLast4 tests extraction of the trailing digits
func TestCPFLast4(t *testing.T) {
	cpf, err := ParseCPF("52998224725")
	if err != nil {
		t.Fatalf("Expected valid CPF, got %v", err)
	}
	if cpf.Last4() != "4725" {
		t.Errorf("Expected last4 4725, got %s", cpf.Last4())
	}
}

// TestMaskCPF tests the display mask format
func TestMaskCPF(t *testing.T) {
	tests := []struct {
		name  string
		last4 string
		want  string
	}{
		{"Normal", "4725", "***.***.***-4725"},
		{"Empty", "", "***.***.***-**"},
		{"Too short", "25", "***.***.***-**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskCPF(tt.last4); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
