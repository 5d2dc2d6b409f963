package generator

import (
	"testing"
	"time"
)

func TestDeriveFilename(t *testing.T) {
	day := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		profileName string
		company     string
		configName  string
		expected    string
	}{
		{
			name:        "company and profile name",
			profileName: "Jane Doe",
			company:     "Acme",
			configName:  "Default",
			expected:    "CV_Jane_Doe_Acme_2026-08-29.pdf",
		},
		{
			name:        "missing company falls back to config name",
			profileName: "Jane Doe",
			company:     "",
			configName:  "Backend roles",
			expected:    "CV_Jane_Doe_Backend_roles_2026-08-29.pdf",
		},
		{
			name:        "missing everything",
			profileName: "",
			company:     "",
			configName:  "",
			expected:    "CV_CV_cv_2026-08-29.pdf",
		},
		{
			name:        "unsafe characters replaced in company",
			profileName: "Jane",
			company:     "Acme GmbH & Co. KG",
			configName:  "",
			expected:    "CV_Jane_Acme_GmbH___Co__KG_2026-08-29.pdf",
		},
		{
			name:        "accented letters survive",
			profileName: "Jürgen Müßig",
			company:     "Straßenbau",
			configName:  "",
			expected:    "CV_Jürgen_Müßig_Straßenbau_2026-08-29.pdf",
		},
		{
			name:        "profile name strips punctuation and collapses spaces",
			profileName: "Dr. Jane  van Doe",
			company:     "Acme",
			configName:  "",
			expected:    "CV_Dr_Jane_van_Doe_Acme_2026-08-29.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveFilename(tt.profileName, tt.company, tt.configName, day)
			if got != tt.expected {
				t.Errorf("deriveFilename() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// Same inputs on the same day derive the same name: the overwrite is
// intentional, so the derivation must be deterministic.
func TestDeriveFilenameDeterministic(t *testing.T) {
	day := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)

	a := deriveFilename("Jane Doe", "Acme", "", day)
	b := deriveFilename("Jane Doe", "Acme", "", later)
	if a != b {
		t.Errorf("same-day derivations differ: %q vs %q", a, b)
	}
}
