package latex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gerakolix/cvforge/internal/domain"
)

// FieldFunc resolves a publication field. Publication fields are
// language-invariant, so formatters receive a plain resolver instead of a
// language-aware one.
type FieldFunc func(e domain.Entry, field string) string

var schemePrefix = regexp.MustCompile(`^https?://`)

// citationBlock wraps a formatted citation body in the shared tabularx
// envelope and appends the optional hyperlink line. The link's visible text
// is the URL stripped of its scheme prefix.
func citationBlock(body, url string) string {
	var b strings.Builder
	b.WriteString("\\noindent\\begin{tabularx}{\\textwidth}{@{}X@{}}\n    ")
	b.WriteString(body)
	if url != "" {
		fmt.Fprintf(&b, "\n    \\href{%s}{%s}", url, Escape(schemePrefix.ReplaceAllString(url, "")))
	}
	b.WriteString("\n\\end{tabularx}\n\n")
	return b.String()
}

// FormatAPA renders an author/year-lead citation:
// Authors (Year). Title. Journal.
func FormatAPA(e domain.Entry, get FieldFunc) string {
	body := fmt.Sprintf("\\textbf{%s} (%s).\\\\[2pt]\n    \\textit{%s}. %s.\\\\[2pt]",
		Escape(get(e, "authors")), Escape(get(e, "year")),
		Escape(get(e, "title")), Escape(get(e, "journal")))
	return citationBlock(body, get(e, "url"))
}

// FormatIEEE renders a numbered-bracket citation. index is the 1-based
// position of the publication in the rendered list.
func FormatIEEE(e domain.Entry, get FieldFunc, index int) string {
	body := fmt.Sprintf("[%d] %s, ``%s,'' \\textit{%s}, %s.\\\\[2pt]",
		index, Escape(get(e, "authors")), Escape(get(e, "title")),
		Escape(get(e, "journal")), Escape(get(e, "year")))
	return citationBlock(body, get(e, "url"))
}

// FormatChicago renders: Authors. Year. "Title." Journal.
func FormatChicago(e domain.Entry, get FieldFunc) string {
	body := fmt.Sprintf("%s. %s. ``%s.'' \\textit{%s}.\\\\[2pt]",
		Escape(get(e, "authors")), Escape(get(e, "year")),
		Escape(get(e, "title")), Escape(get(e, "journal")))
	return citationBlock(body, get(e, "url"))
}

// FormatMLA renders a quoted-title-first citation:
// Authors. "Title." Journal, Year.
func FormatMLA(e domain.Entry, get FieldFunc) string {
	body := fmt.Sprintf("%s. ``%s.'' \\textit{%s}, %s.\\\\[2pt]",
		Escape(get(e, "authors")), Escape(get(e, "title")),
		Escape(get(e, "journal")), Escape(get(e, "year")))
	return citationBlock(body, get(e, "url"))
}
