package latex

import (
	"strings"
	"testing"

	"github.com/gerakolix/cvforge/internal/domain"
)

var pub = domain.Entry{
	"id":      "p1",
	"authors": "Doe, J. & Smith, A.",
	"year":    "2023",
	"title":   "Evaluating 100% Coverage",
	"journal": "Journal of Testing",
	"url":     "https://example.org/paper",
}

func plainGet(e domain.Entry, field string) string {
	return domain.Resolve(e, field, domain.Overrides{})
}

func TestFormatAPA(t *testing.T) {
	got := FormatAPA(pub, plainGet)

	for _, want := range []string{
		"\\textbf{Doe, J. \\& Smith, A.} (2023).",
		"\\textit{Evaluating 100\\% Coverage}. Journal of Testing.",
		"\\href{https://example.org/paper}{example.org/paper}",
		"\\begin{tabularx}",
		"\\end{tabularx}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("APA citation missing %q:\n%s", want, got)
		}
	}
}

func TestFormatIEEE(t *testing.T) {
	got := FormatIEEE(pub, plainGet, 3)

	if !strings.Contains(got, "[3] Doe, J. \\& Smith, A., ``Evaluating 100\\% Coverage,'' \\textit{Journal of Testing}, 2023.") {
		t.Errorf("IEEE citation body wrong:\n%s", got)
	}
	if !strings.Contains(got, "{example.org/paper}") {
		t.Errorf("IEEE citation missing scheme-stripped link text:\n%s", got)
	}
}

func TestFormatChicago(t *testing.T) {
	got := FormatChicago(pub, plainGet)

	if !strings.Contains(got, "Doe, J. \\& Smith, A.. 2023. ``Evaluating 100\\% Coverage.'' \\textit{Journal of Testing}.") {
		t.Errorf("Chicago citation body wrong:\n%s", got)
	}
}

func TestFormatMLA(t *testing.T) {
	got := FormatMLA(pub, plainGet)

	if !strings.Contains(got, "Doe, J. \\& Smith, A.. ``Evaluating 100\\% Coverage.'' \\textit{Journal of Testing}, 2023.") {
		t.Errorf("MLA citation body wrong:\n%s", got)
	}
}

func TestCitationWithoutURL(t *testing.T) {
	entry := domain.Entry{
		"id":      "p2",
		"authors": "Doe, J.",
		"year":    "2020",
		"title":   "No Link",
		"journal": "J",
	}

	for name, got := range map[string]string{
		"apa":     FormatAPA(entry, plainGet),
		"ieee":    FormatIEEE(entry, plainGet, 1),
		"chicago": FormatChicago(entry, plainGet),
		"mla":     FormatMLA(entry, plainGet),
	} {
		if strings.Contains(got, "\\href") {
			t.Errorf("%s: citation without url must not emit a hyperlink:\n%s", name, got)
		}
	}
}

func TestCitationOverridesApply(t *testing.T) {
	o := domain.Overrides{"p1": {"year": "2024"}}
	get := func(e domain.Entry, field string) string { return domain.Resolve(e, field, o) }

	got := FormatAPA(pub, get)
	if !strings.Contains(got, "(2024).") {
		t.Errorf("expected override year 2024 in citation:\n%s", got)
	}
}
