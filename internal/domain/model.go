package domain

import "time"

// Section types determine which fields an Entry carries and how it renders.
const (
	SectionEntries      = "entries"
	SectionProjects     = "projects"
	SectionPublications = "publications"
	SectionSkills       = "skills"
)

// Supported configuration languages.
const (
	LangEN = "en"
	LangDE = "de"
)

// Citation styles for publication sections.
const (
	StyleAPA     = "apa"
	StyleIEEE    = "ieee"
	StyleChicago = "chicago"
	StyleMLA     = "mla"
)

// Profile is the flat record of personal fields (name, email, phone, photo,
// plus per-language fields suffixed En/De such as titleEn/titleDe).
// It is kept as a map because the set of fields is data-driven: language
// suffixing and label fields (emailLabelEn, ...) are resolved by name.
type Profile map[string]string

// Entry is a single CV line item. Its field set depends on the section type,
// so it is a map keyed by field name ("titleEn", "dates", "authors", ...).
// Every entry carries a unique "id" used by configuration selection maps.
type Entry map[string]string

// ID returns the entry's stable identifier, empty if unset.
func (e Entry) ID() string { return e["id"] }

// Section is a named, typed group of entries sharing a rendering shape.
type Section struct {
	LabelEn string  `json:"labelEn"`
	LabelDe string  `json:"labelDe"`
	Type    string  `json:"type"`
	Items   []Entry `json:"items"`
}

// Label returns the section heading for the given language.
func (s Section) Label(lang string) string {
	if lang == LangDE {
		return s.LabelDe
	}
	return s.LabelEn
}

// Sections maps a stable section key to its Section record.
type Sections map[string]Section

// Overrides maps entry id -> field name -> configuration-scoped replacement
// value. An empty value means "no override" (the base value wins).
type Overrides map[string]map[string]string

// Configuration is a named view over the base Profile/Sections data: it
// selects, orders, and overrides entries for one target use (e.g. one job
// application). Custom entries exist only within the configuration but
// participate in selection/ordering/overrides like base entries.
type Configuration struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Language         string              `json:"language"`
	UseLogos         bool                `json:"useLogos"`
	CitationStyle    string              `json:"citationStyle"`
	SectionOrder     []string            `json:"sectionOrder"`
	EnabledEntries   map[string][]string `json:"enabledEntries"`
	EntryOrder       map[string][]string `json:"entryOrder"`
	Overrides        Overrides           `json:"overrides"`
	CustomEntries    map[string][]Entry  `json:"customEntries"`
	ProfileOverrides map[string]string   `json:"profileOverrides"`
}

// MergedProfile applies the configuration's profile overrides on top of the
// base profile. Empty override values are ignored so a blank form field
// never erases base data.
func (c *Configuration) MergedProfile(p Profile) Profile {
	merged := make(Profile, len(p)+len(c.ProfileOverrides))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range c.ProfileOverrides {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}

// JobMeta is the user-supplied metadata attached to one generation request.
type JobMeta struct {
	Company  string   `json:"company"`
	Position string   `json:"position"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

// ArchiveEntry is the historical record of one completed generation,
// linking job metadata to the produced artifacts.
type ArchiveEntry struct {
	ID              string    `json:"id"`
	ConfigID        string    `json:"configId"`
	ConfigName      string    `json:"configName"`
	Filename        string    `json:"filename"`
	TexFilename     string    `json:"texFilename"`
	Company         string    `json:"company"`
	Position        string    `json:"position"`
	Notes           string    `json:"notes"`
	Tags            []string  `json:"tags"`
	Language        string    `json:"language"`
	TemplateVersion string    `json:"templateVersion"`
	CreatedAt       time.Time `json:"createdAt"`
}
