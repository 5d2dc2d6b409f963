package latex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gerakolix/cvforge/internal/domain"
)

// The assembler is a pure function from persisted data to a complete LaTeX
// document. It performs no I/O, never fails on missing optional data (every
// field read degrades to the empty string), and silently drops entry ids
// that no longer resolve to an item.

const preambleHead = `\documentclass[a4paper,10pt]{article}

%--- PACKAGES ---
\usepackage[left=1.5cm, right=1.5cm, top=1.5cm, bottom=1.5cm]{geometry}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{helvet}
\renewcommand{\familydefault}{\sfdefault}
\usepackage{xcolor}
\usepackage{titlesec}
\usepackage{tabularx}
\usepackage{enumitem}
\usepackage{graphicx}
\usepackage{tikz}
\usepackage{hyperref}
\usepackage{etoolbox}
\usepackage{needspace}

\hypersetup{
    colorlinks=true,
    linkcolor=navyblue,
    urlcolor=navyblue,
    citecolor=navyblue,
    pdfborder={0 0 1}
}

%--- COLORS ---
\definecolor{navyblue}{RGB}{0, 53, 107}
\definecolor{graytext}{RGB}{80, 80, 80}

%--- FORMATTING ---
\titleformat{\section}
{\Large\bfseries\color{navyblue}\uppercase}
{}{0em}
{}[\titlerule]
`

const sectionRule = `%===============================================================================
`

// spacing holds the language-dependent vertical spacing constants. German
// CVs run longer, so the DE template is tightened to keep two pages.
type spacing struct {
	sectionBefore string
	sectionAfter  string
	entryGap      string
	projectGap    string
	skillsGap     string
}

func spacingFor(lang string) spacing {
	if lang == domain.LangDE {
		return spacing{"8pt", "4pt", "2pt", "4pt", "0.2cm"}
	}
	return spacing{"12pt", "6pt", "4pt", "6pt", "0.4cm"}
}

// renderContext carries the per-configuration knobs every section renderer
// needs, plus the two resolver flavors bound to this configuration.
type renderContext struct {
	lang     string
	style    string
	useLogos bool
	spc      spacing
	ov       domain.Overrides
}

// get resolves a language-invariant field (override chain, then entry).
func (rc renderContext) get(e domain.Entry, field string) string {
	return domain.Resolve(e, field, rc.ov)
}

// lget resolves a language-suffixed field with unsuffixed fallback.
func (rc renderContext) lget(e domain.Entry, field string) string {
	return domain.ResolveLang(e, field, rc.lang, rc.ov)
}

// Assemble produces the full LaTeX source for one configuration: preamble,
// optional photo block, header, one block per enabled section in configured
// order, footer.
func Assemble(profile domain.Profile, sections domain.Sections, cfg *domain.Configuration) string {
	lang := cfg.Language
	if lang == "" {
		lang = domain.LangEN
	}
	style := cfg.CitationStyle
	if style == "" {
		style = domain.StyleAPA
	}
	order := cfg.SectionOrder
	if len(order) == 0 {
		order = sortedKeys(sections)
	}

	rc := renderContext{
		lang:     lang,
		style:    style,
		useLogos: cfg.UseLogos,
		spc:      spacingFor(lang),
		ov:       cfg.Overrides,
	}
	merged := cfg.MergedProfile(profile)

	var b strings.Builder
	writePreamble(&b, rc)
	writePhoto(&b, merged)
	writeHeader(&b, merged, lang)

	for _, key := range order {
		section, ok := sections[key]
		if !ok {
			continue
		}
		items := effectiveItems(section, cfg, key)
		if len(items) == 0 {
			continue
		}

		b.WriteString(sectionRule)
		b.WriteString("\\needspace{5\\baselineskip}\n")
		fmt.Fprintf(&b, "\\section{%s}\n\n", Escape(section.Label(lang)))

		switch section.Type {
		case domain.SectionEntries:
			renderEntries(&b, items, rc)
		case domain.SectionProjects:
			renderProjects(&b, items, rc)
		case domain.SectionPublications:
			renderPublications(&b, items, rc)
		case domain.SectionSkills:
			renderSkills(&b, items, rc)
		}
	}

	writeFooter(&b, merged, lang)
	return b.String()
}

func sortedKeys(sections domain.Sections) []string {
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// effectiveItems builds the rendered item list for one section: base items
// plus the configuration's custom items, reordered by the configuration's
// partial entry order (listed ids first, remainder in base order), then
// filtered to the enabled set. Dangling ids are dropped, never an error.
func effectiveItems(section domain.Section, cfg *domain.Configuration, key string) []domain.Entry {
	all := make([]domain.Entry, 0, len(section.Items)+len(cfg.CustomEntries[key]))
	all = append(all, section.Items...)
	all = append(all, cfg.CustomEntries[key]...)

	if order := cfg.EntryOrder[key]; len(order) > 0 {
		all = reorder(all, order)
	}

	enabled := make(map[string]bool, len(cfg.EnabledEntries[key]))
	for _, id := range cfg.EnabledEntries[key] {
		enabled[id] = true
	}
	items := make([]domain.Entry, 0, len(all))
	for _, item := range all {
		if enabled[item.ID()] {
			items = append(items, item)
		}
	}
	return items
}

// reorder puts items whose ids are listed first, in listed order, then the
// remaining items in their original order. Stable, drops nothing.
func reorder(items []domain.Entry, order []string) []domain.Entry {
	byID := make(map[string]domain.Entry, len(items))
	for _, item := range items {
		byID[item.ID()] = item
	}
	listed := make(map[string]bool, len(order))

	out := make([]domain.Entry, 0, len(items))
	for _, id := range order {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
		listed[id] = true
	}
	for _, item := range items {
		if !listed[item.ID()] {
			out = append(out, item)
		}
	}
	return out
}

func writePreamble(b *strings.Builder, rc renderContext) {
	b.WriteString(preambleHead)
	fmt.Fprintf(b, "\\titlespacing{\\section}{0pt}{%s}{%s}\n\n", rc.spc.sectionBefore, rc.spc.sectionAfter)

	// Two-column entry row: dates | title, optional italic subtitle,
	// optional description.
	b.WriteString(`\newcommand{\entry}[4]{%
    \needspace{3\baselineskip}%
    \noindent\begin{tabularx}{\textwidth}{@{}p{3.5cm} X@{}}
        \textbf{#1} & \textbf{#2}%
        \ifblank{#3}{}{\\& \textit{\small #3}}%
        \ifblank{#4}{}{\\& #4}%
    \end{tabularx}
`)
	fmt.Fprintf(b, "    \\vspace{%s}\n}\n\n", rc.spc.entryGap)

	// Richer project row: dates | title --- role, logo or company text,
	// description, stack line.
	b.WriteString(`\newcommand{\projectentry}[7]{%
    \needspace{4\baselineskip}%
    \noindent\begin{tabularx}{\textwidth}{@{}p{3.5cm} X@{}}
        \textbf{#7} & \textbf{#3} --- \textit{#4}\\[2pt]
`)
	if rc.useLogos {
		b.WriteString("        \\raisebox{-0.3\\height}{\\includegraphics[width=3cm, height=0.9cm, keepaspectratio]{#1}}%\n")
	} else {
		b.WriteString("        \\textit{\\small #2}%\n")
	}
	b.WriteString(`        & #5\\[2pt]
        & \textcolor{navyblue}{\small\textbf{Stack:}} {\small #6}
    \end{tabularx}
`)
	fmt.Fprintf(b, "    \\vspace{%s}\n}\n\n", rc.spc.projectGap)

	b.WriteString("\\setlist[itemize]{leftmargin=*, noitemsep, topsep=0pt}\n\n\\begin{document}\n")
}

// writePhoto emits an absolutely positioned photo anchored to the top-right
// page corner, only when the merged profile names a photo file.
func writePhoto(b *strings.Builder, profile domain.Profile) {
	photo := profile["photo"]
	if photo == "" {
		return
	}
	b.WriteString(`
%--- PHOTO ---
\begin{tikzpicture}[remember picture, overlay]
    \node[anchor=north east, inner sep=0pt, xshift=-1.5cm, yshift=-1.5cm]
        at (current page.north east) {%
        \includegraphics[width=3.5cm, height=4.5cm, keepaspectratio]{` + Escape(photo) + `}
    };
\end{tikzpicture}
`)
}

// writeHeader emits name, title, and the labeled personal fields. Labels
// are profile data themselves, language-resolved like the values, so the
// whole header localizes without hardcoded strings.
func writeHeader(b *strings.Builder, profile domain.Profile, lang string) {
	field := func(name string) string { return Escape(domain.ProfileField(profile, name, lang)) }

	b.WriteString("\n%--- HEADER ---\n\\begin{minipage}{0.7\\textwidth}\n")
	fmt.Fprintf(b, "    {\\Huge \\textbf{\\color{navyblue} %s}}\\\\[0.2cm]\n", Escape(profile["name"]))
	fmt.Fprintf(b, "    {\\large %s}\\\\[0.3cm]\n\n", field("title"))
	fmt.Fprintf(b, "    \\textbf{%s:} %s\\\\\n", field("dateOfBirthLabel"), field("dateOfBirth"))
	fmt.Fprintf(b, "    \\textbf{%s:} %s\\\\\n", field("nationalityLabel"), field("nationality"))
	fmt.Fprintf(b, "    \\textbf{%s:} %s\\\\\n", field("locationLabel"), field("location"))
	fmt.Fprintf(b, "    \\textbf{%s:} %s", field("emailLabel"), Escape(profile["email"]))
	if profile["phone"] != "" {
		fmt.Fprintf(b, "\\\\\n    \\textbf{%s:} %s", field("phoneLabel"), Escape(profile["phone"]))
	}
	b.WriteString("\n\\end{minipage}\n\n\\vspace{0.8cm}\n\n")
}

func renderEntries(b *strings.Builder, items []domain.Entry, rc renderContext) {
	for _, e := range items {
		desc := JoinLinesWithThesis(rc.lget(e, "description"))

		// Hyperlink line appended to the description when both the URL
		// (language-invariant) and the visible text resolve non-empty.
		linkURL := rc.get(e, "linkUrl")
		linkText := rc.lget(e, "linkText")
		if linkURL != "" && linkText != "" {
			if desc != "" {
				desc += lineBreak
			}
			desc += fmt.Sprintf("\\href{%s}{\\small %s}", linkURL, Escape(linkText))
		}

		fmt.Fprintf(b, "\\entry{%s}\n    {%s}\n    {%s}\n    {%s}\n\n",
			Escape(rc.lget(e, "dates")),
			Escape(rc.lget(e, "title")),
			Escape(rc.lget(e, "subtitle")),
			desc)
	}
}

func renderProjects(b *strings.Builder, items []domain.Entry, rc renderContext) {
	for _, e := range items {
		fmt.Fprintf(b, "\\projectentry{%s}\n    {%s}\n    {%s}\n    {%s}\n    {%s}\n    {%s}\n    {%s}\n\n",
			Escape(rc.get(e, "logo")),
			Escape(rc.get(e, "company")),
			Escape(rc.lget(e, "title")),
			Escape(rc.lget(e, "role")),
			JoinLines(rc.lget(e, "description")),
			Escape(rc.get(e, "stack")),
			Escape(rc.get(e, "dates")))
	}
}

// renderPublications dispatches each item to the configured citation style.
// IEEE numbering follows the rendered order, 1-based.
func renderPublications(b *strings.Builder, items []domain.Entry, rc renderContext) {
	for i, e := range items {
		switch rc.style {
		case domain.StyleIEEE:
			b.WriteString(FormatIEEE(e, rc.get, i+1))
		case domain.StyleChicago:
			b.WriteString(FormatChicago(e, rc.get))
		case domain.StyleMLA:
			b.WriteString(FormatMLA(e, rc.get))
		default:
			b.WriteString(FormatAPA(e, rc.get))
		}
	}
}

func renderSkills(b *strings.Builder, items []domain.Entry, rc renderContext) {
	b.WriteString("\\noindent\\begin{tabularx}{\\textwidth}{@{}p{3.5cm} X@{}}\n")
	for i, e := range items {
		label := rc.lget(e, "label")
		if label == "" {
			label = rc.lget(e, "value")
		}
		separator := ""
		if i < len(items)-1 {
			separator = " \\\\[8pt]"
		}
		fmt.Fprintf(b, "    \\textbf{%s} & %s%s\n", Escape(label), Escape(rc.lget(e, "value")), separator)
	}
	fmt.Fprintf(b, "\\end{tabularx}\n\n\\vspace{%s}\n\n", rc.spc.skillsGap)
}

// writeFooter emits the language-resolved location and CV date; when no
// date is set the document falls back to \today so it always shows one.
func writeFooter(b *strings.Builder, profile domain.Profile, lang string) {
	cvDate := domain.ProfileField(profile, "cvDate", lang)
	date := "\\today"
	if cvDate != "" {
		date = Escape(cvDate)
	}
	fmt.Fprintf(b, "\\vfill\n\\begin{flushright}\n    \\small %s, %s\n\\end{flushright}\n\n\\end{document}\n",
		Escape(domain.ProfileField(profile, "location", lang)), date)
}
