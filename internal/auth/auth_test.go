package auth

import (
	"errors"
	"testing"
)

func TestIdentityForEmail(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		domain       string
		wantUsername string
		wantErr      bool
	}{
		{
			name:         "allowed domain",
			email:        "Bob@Example.com",
			domain:       "example.com",
			wantUsername: "bob",
		},
		{
			name:    "wrong domain",
			email:   "bob@other.com",
			domain:  "example.com",
			wantErr: true,
		},
		{
			name:         "no domain gate admits any verified email",
			email:        "carol@anywhere.io",
			domain:       "",
			wantUsername: "carol",
		},
		{
			name:    "empty email",
			email:   "",
			domain:  "example.com",
			wantErr: true,
		},
		{
			name:         "domain compared case-insensitively",
			email:        "dana@EXAMPLE.COM",
			domain:       "Example.com",
			wantUsername: "dana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := IdentityForEmail(tt.email, tt.domain)
			if tt.wantErr {
				if !errors.Is(err, ErrWrongDomain) {
					t.Fatalf("err = %v, want ErrWrongDomain", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if ident.Username != tt.wantUsername {
				t.Errorf("Username = %q, want %q", ident.Username, tt.wantUsername)
			}
		})
	}
}
