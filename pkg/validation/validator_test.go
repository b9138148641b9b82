package validation

import (
	"strings"
	"testing"
)

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "correct-horse"},
		},
		{
			name:    "missing name",
			req:     RegisterRequest{Email: "alice@example.com", Password: "correct-horse"},
			wantErr: true,
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Name: "Alice", Email: "nope", Password: "correct-horse"},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "short"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateEdgeRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     EdgeRequest
		wantErr bool
	}{
		{
			name: "valid with polarity",
			req:  EdgeRequest{FromNodeID: 1, ToNodeID: 2, Polarity: "negative"},
		},
		{
			name: "valid without polarity",
			req:  EdgeRequest{FromNodeID: 1, ToNodeID: 2},
		},
		{
			name:    "unknown polarity",
			req:     EdgeRequest{FromNodeID: 1, ToNodeID: 2, Polarity: "sideways"},
			wantErr: true,
		},
		{
			name:    "missing origin",
			req:     EdgeRequest{ToNodeID: 2},
			wantErr: true,
		},
		{
			name:    "note too long",
			req:     EdgeRequest{FromNodeID: 1, ToNodeID: 2, Note: strings.Repeat("x", 2001)},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTechniqueRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     TechniqueRequest
		wantErr bool
	}{
		{name: "valid", req: TechniqueRequest{VideoURL: "https://example.com/v.mp4", Steps: "do the thing"}},
		{name: "empty is fine", req: TechniqueRequest{}},
		{name: "bad url", req: TechniqueRequest{VideoURL: "not a url"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateErrorMessages(t *testing.T) {
	err := Validate(&GraphRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("expected a required-field message, got %q", err.Error())
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}
