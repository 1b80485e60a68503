package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Password1", true},
		{"Zz345678", true},
		{"Pässwörd1", true},
		{"Pass1", false},
		{"password1", false},
		{"PASSWORD1", false},
		{"Password", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, isStrongPassword(tt.password))
		})
	}
}

func TestCheckVar(t *testing.T) {
	validate := newValidate()

	tests := []struct {
		name    string
		value   string
		tag     string
		wantErr bool
	}{
		{"http url", "http://example.com", "required,http_url", false},
		{"https url with path", "https://example.com/a/b?c=d#e", "required,http_url", false},
		{"missing scheme", "example.com", "required,http_url", true},
		{"other scheme", "ftp://example.com", "required,http_url", true},
		{"empty url", "", "required,http_url", true},
		{"slug", "my-link_1", "slug", false},
		{"slug too short", "ab", "slug", true},
		{"slug with space", "my link", "slug", true},
		{"slug too long", "a123456789b123456789c123456789d123456789e123456789f123456789g1234", "slug", true},
		{"reserved slug", "ping", "slug,unreserved", true},
		{"reserved slug api", "api", "slug,unreserved", true},
		{"slug starting with reserved word", "docs-v2", "slug,unreserved", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkVar(validate, "field", tt.value, tt.tag)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "field", vErr.Field)
			assert.NotEmpty(t, vErr.Message)
		})
	}
}
