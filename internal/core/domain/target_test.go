// internal/core/domain/target_test.go
package domain_test

import (
	"testing"

	"overseerx/internal/core/domain"
	"overseerx/internal/testutil"
)

func TestNewTarget(t *testing.T) {
	target := domain.NewTarget("Example.COM.")

	testutil.AssertNotNil(t, target, "target should not be nil")
	testutil.AssertEqual(t, target.Root, "example.com", "root domain normalized")
}

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name        string
		root        string
		shouldError bool
	}{
		{
			name:        "valid domain",
			root:        "example.com",
			shouldError: false,
		},
		{
			name:        "valid subdomain as root",
			root:        "corp.example.com",
			shouldError: false,
		},
		{
			name:        "valid domain with hyphen",
			root:        "my-domain.com",
			shouldError: false,
		},
		{
			name:        "empty domain",
			root:        "",
			shouldError: true,
		},
		{
			name:        "IP address should fail",
			root:        "192.168.1.1",
			shouldError: true,
		},
		{
			name:        "invalid characters",
			root:        "invalid_domain.com",
			shouldError: true,
		},
		{
			name:        "bare TLD should fail",
			root:        "com",
			shouldError: true,
		},
		{
			name:        "public suffix should fail",
			root:        "co.uk",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := domain.NewTarget(tt.root)
			err := target.Validate()

			if tt.shouldError {
				testutil.AssertError(t, err, "should return error for "+tt.root)
			} else {
				testutil.AssertNoError(t, err, "should not return error for "+tt.root)
			}
		})
	}
}

func TestTarget_IsInScope(t *testing.T) {
	target := domain.NewTarget("example.com")
	target.AddAlias("example.net")
	target.AddExclusion("staging.example.com")

	tests := []struct {
		name     string
		hostname string
		want     bool
	}{
		{name: "root itself", hostname: "example.com", want: true},
		{name: "direct subdomain", hostname: "www.example.com", want: true},
		{name: "deep subdomain", hostname: "a.b.example.com", want: true},
		{name: "case folded", hostname: "API.Example.COM", want: true},
		{name: "trailing dot", hostname: "mail.example.com.", want: true},
		{name: "alias subdomain", hostname: "www.example.net", want: true},
		{name: "unrelated domain", hostname: "other.com", want: false},
		{name: "suffix without label boundary", hostname: "notexample.com", want: false},
		{name: "embedded but not suffix", hostname: "example.com.evil.org", want: false},
		{name: "excluded zone", hostname: "staging.example.com", want: false},
		{name: "inside excluded zone", hostname: "db.staging.example.com", want: false},
		{name: "empty hostname", hostname: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, target.IsInScope(tt.hostname), tt.want, tt.hostname)
		})
	}
}

func TestTarget_AddAlias(t *testing.T) {
	target := domain.NewTarget("example.com")

	target.AddAlias("example.net")
	target.AddAlias("example.net") // duplicado
	target.AddAlias("example.com") // igual al root
	target.AddAlias("")

	testutil.AssertEqual(t, len(target.Aliases), 1, "aliases should deduplicate")
}

func TestTarget_AddExclusion(t *testing.T) {
	target := domain.NewTarget("example.com")

	target.AddExclusion("internal.example.com")
	target.AddExclusion("Internal.Example.com") // duplicado tras normalizar

	testutil.AssertEqual(t, len(target.ExcludeDomains), 1, "exclusions should deduplicate")
}
