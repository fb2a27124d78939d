package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlausiblePersonName_Accepts(t *testing.T) {
	v := NewNameValidator([]string{"Washington DC", "Arlington"})

	accepted := []string{
		"Sarah Johnson",
		"Dr. Sarah Johnson",
		"Jane Roe, PhD, LCSW",
		"Maria de la Cruz",
		"John A. Smith",
		"Patrick O'Brien",
		"Anne-Marie Dubois",
		"Robert Chen, MD",
	}
	for _, name := range accepted {
		assert.True(t, v.PlausiblePersonName(name), "expected accept: %q", name)
	}
}

func TestPlausiblePersonName_Rejects(t *testing.T) {
	v := NewNameValidator([]string{"Washington DC", "Arlington", "Bethesda"})

	rejected := []string{
		"",
		"Educational",
		"Patient Experience",
		"Washington DC",
		"Bethesda",
		"Contact Us Today",
		"Read More",
		"sarah johnson", // no capitalization
		"Sarah",         // single token
		"Sarah Johnson Mary Williams Robert Chen", // too many tokens
		"Sarah <b>Johnson</b>",
		"Suite 201 Building",
		"John Smith, Esq, Attorney At Law Office", // non-credential comma segment
	}
	for _, name := range rejected {
		assert.False(t, v.PlausiblePersonName(name), "expected reject: %q", name)
	}
}

func TestPlausiblePersonName_CredentialSuffixKept(t *testing.T) {
	v := NewNameValidator(nil)

	// The credential suffix is part of the name span; validation sees the
	// whole string and still accepts.
	assert.True(t, v.PlausiblePersonName("Sarah Johnson, MD, FAAP"))
	assert.True(t, v.PlausiblePersonName("Emily Tran, PsyD"))
}

func TestPlausibleOrganizationName_Basic(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Children's Hospital of Richmond", true},
		{"Sunrise Treatment Center", true},
		{"Embassy of France", true},
		{"", false},
		{"   ", false},
		{"Contact Us", false},
		{"© 2024 All Rights Reserved", false},
		{"All Rights Reserved", false},
		{"Privacy Policy", false},
		{"Skip to main content", false},
		{"<div>Acme</div>", false},
		{"404", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlausibleOrganizationName(tt.in), "input: %q", tt.in)
	}
}
