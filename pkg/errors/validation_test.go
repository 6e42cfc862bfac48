package errors

import (
	"testing"
)

func TestValidateProjectPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json", "project.json", false},
		{"yaml", "runs/QABCD.yaml", false},
		{"yml upper", "QABCD.YML", false},

		{"empty", "", true},
		{"toml", "project.toml", true},
		{"no extension", "project", true},
		{"control char", "pro\x01ject.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateImagePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"relative dir", "VAADIN/img/", false},
		{"https", "https://portal.example.org/samplegraph/VAADIN/img/", false},

		{"missing slash", "/VAADIN/img", true},
		{"ftp scheme", "ftp://host/img/", true},
		{"null byte", "img\x00/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFactorName(t *testing.T) {
	if err := ValidateFactorName("tissue"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateFactorName("  "); err == nil {
		t.Error("blank factor should fail")
	}
	if err := ValidateFactorName("a\nb"); err == nil {
		t.Error("control chars should fail")
	}
}
