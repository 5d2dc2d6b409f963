package latex

import (
	"regexp"
	"strings"
)

// lineBreak joins description lines as forced line breaks so multi-line user
// text never reflows into prose.
const lineBreak = " \\newline\n    "

// escaper maps every LaTeX-reserved character to its safe literal form in a
// single pass, so substitutions never re-escape already-inserted sequences.
var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

// Escape converts arbitrary user text into safely embeddable LaTeX.
// Total and empty-string-safe. Not idempotent: escaping already-escaped
// text escapes the escape sequences again.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	return escaper.Replace(text)
}

// thesisLine matches lines of the exact shape `Thesis: "quoted text"`.
var thesisLine = regexp.MustCompile(`^(Thesis): "(.+)"$`)

// JoinLines splits multi-line text, trims and escapes each non-empty line,
// and rejoins with forced line breaks.
func JoinLines(text string) string {
	if text == "" {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if escaped := Escape(strings.TrimSpace(line)); escaped != "" {
			lines = append(lines, escaped)
		}
	}
	return strings.Join(lines, lineBreak)
}

// JoinLinesWithThesis behaves like JoinLines, but renders a thesis title
// line (`Thesis: "..."`) with the quoted portion in italics between
// typographic quotation marks instead of escaping it verbatim.
func JoinLinesWithThesis(text string) string {
	if text == "" {
		return ""
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		var rendered string
		if m := thesisLine.FindStringSubmatch(line); m != nil {
			rendered = Escape(m[1]) + ": \\textit{``" + Escape(m[2]) + "''}"
		} else {
			rendered = Escape(strings.TrimSpace(line))
		}
		if rendered != "" {
			lines = append(lines, rendered)
		}
	}
	return strings.Join(lines, lineBreak)
}
