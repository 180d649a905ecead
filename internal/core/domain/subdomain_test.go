// internal/core/domain/subdomain_test.go
package domain_test

import (
	"testing"

	"overseerx/internal/core/domain"
	"overseerx/internal/testutil"
)

func TestNewSubdomain(t *testing.T) {
	sub := domain.NewSubdomain("*.API.Example.com.", "crtsh")

	testutil.AssertEqual(t, sub.Name, "api.example.com", "name should be normalized")
	testutil.AssertLen(t, sub.Sources, 1, "should have one source")
	testutil.AssertContains(t, sub.Sources, "crtsh", "source should be recorded")
}

func TestSubdomain_AddSource(t *testing.T) {
	sub := domain.NewSubdomain("api.example.com", "crtsh")

	sub.AddSource("certspotter")
	sub.AddSource("crtsh") // duplicado
	sub.AddSource("")

	testutil.AssertLen(t, sub.Sources, 2, "sources should accumulate without duplicates")
}

func TestSubdomain_Merge(t *testing.T) {
	a := domain.NewSubdomain("api.example.com", "crtsh")
	b := domain.NewSubdomain("api.example.com", "certspotter")
	b.AddSource("hackertarget")

	err := a.Merge(b)
	testutil.AssertNoError(t, err, "merge of same name")
	testutil.AssertLen(t, a.Sources, 3, "provenance should be merged")

	// El merge es conmutativo en el set resultante de fuentes
	c := domain.NewSubdomain("api.example.com", "certspotter")
	c.AddSource("hackertarget")
	d := domain.NewSubdomain("api.example.com", "crtsh")
	testutil.AssertNoError(t, c.Merge(d), "reverse merge")
	testutil.AssertLen(t, c.Sources, 3, "reverse merge provenance")
}

func TestSubdomain_MergeDifferentNames(t *testing.T) {
	a := domain.NewSubdomain("api.example.com", "crtsh")
	b := domain.NewSubdomain("www.example.com", "crtsh")

	testutil.AssertError(t, a.Merge(b), "merge of different names should fail")
	testutil.AssertError(t, a.Merge(nil), "merge of nil should fail")
}

func TestNormalizeHostname(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"A.EXAMPLE.COM", "a.example.com"},
		{"*.example.com", "example.com"},
		{"  www.example.com  ", "www.example.com"},
		{"mail.example.com.", "mail.example.com"},
		{"*.Staging.Example.COM.", "staging.example.com"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, domain.NormalizeHostname(tt.raw), tt.want, tt.raw)
	}
}

func TestSortedSubdomains(t *testing.T) {
	set := map[string]*domain.Subdomain{
		"c.example.com": domain.NewSubdomain("c.example.com", "crtsh"),
		"a.example.com": domain.NewSubdomain("a.example.com", "crtsh"),
		"b.example.com": domain.NewSubdomain("b.example.com", "crtsh"),
	}

	sorted := domain.SortedSubdomains(set)

	testutil.AssertEqual(t, len(sorted), 3, "all entries present")
	testutil.AssertEqual(t, sorted[0].Name, "a.example.com", "first")
	testutil.AssertEqual(t, sorted[1].Name, "b.example.com", "second")
	testutil.AssertEqual(t, sorted[2].Name, "c.example.com", "third")
}
