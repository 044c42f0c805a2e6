package domain_test

import (
	"testing"

	"davomat/internal/modules/profile/domain"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"998901234567", "998901234567", true},
		{"+998 (90) 123-45-67", "998901234567", true},
		{"901234567", "901234567", false},
		{"99890123", "99890123", false},
		{"7 999 123 45 67", "79991234567", false},
	}
	for _, tc := range cases {
		got, ok := domain.NormalizePhone(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%q: expected (%q,%t), got (%q,%t)", tc.raw, tc.want, tc.ok, got, ok)
		}
	}
}

func TestHandleAndDiplomaStatus(t *testing.T) {
	t.Parallel()
	p := domain.Profile{Username: "ali"}
	if p.Handle() != "@ali" || domain.FormatHandle("@ali") != "@ali" || domain.FormatHandle(" ") != "" {
		t.Fatalf("unexpected handle rendering")
	}
	if p.DiplomaStatus() != "Mavjud emas" {
		t.Fatalf("expected no diploma")
	}
	p.HasDiploma = true
	if p.DiplomaStatus() != "Mavjud" {
		t.Fatalf("expected diploma")
	}
}
