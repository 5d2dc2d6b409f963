package domain

// Field resolution is a chain of optional lookups tried in sequence:
// configuration override, then the entry's own field, then empty string.
// The language-aware variant first tries the suffixed field name through
// the same chain, then falls back to the unsuffixed one, so an override
// without a language suffix applies to both languages while per-language
// base data still wins when no override exists.

// source is one layer of the resolution chain. It returns the value and
// whether the layer considers the field defined at all.
type source func(e Entry, field string) (string, bool)

// overrideSource resolves from the configuration's override map.
// Empty override values count as undefined: they must not shadow base data.
func overrideSource(o Overrides) source {
	return func(e Entry, field string) (string, bool) {
		ov, ok := o[e.ID()]
		if !ok {
			return "", false
		}
		v, ok := ov[field]
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}
}

// entrySource resolves from the entry's own fields.
func entrySource(e Entry, field string) (string, bool) {
	v, ok := e[field]
	return v, ok
}

// Resolve returns the display value of a logical field: the configuration
// override if present and non-empty, else the entry's value, else "".
func Resolve(e Entry, field string, o Overrides) string {
	for _, src := range []source{overrideSource(o), entrySource} {
		if v, ok := src(e, field); ok {
			return v
		}
	}
	return ""
}

// LangSuffix returns the field-name suffix for a configuration language.
// Anything that is not German resolves as English.
func LangSuffix(lang string) string {
	if lang == LangDE {
		return "De"
	}
	return "En"
}

// ResolveLang resolves a language-suffixed field (field+"En"/"De") through
// the override chain, falling back to the unsuffixed field when the
// suffixed resolution yields an empty string.
func ResolveLang(e Entry, field, lang string, o Overrides) string {
	if v := Resolve(e, field+LangSuffix(lang), o); v != "" {
		return v
	}
	return Resolve(e, field, o)
}

// ProfileField resolves a profile field per language: the suffixed field
// wins whenever it is defined (even if empty), else the unsuffixed field,
// else "". Defined-but-empty suffixed values intentionally do not fall
// back, matching how profile data is edited per language.
func ProfileField(p Profile, field, lang string) string {
	if v, ok := p[field+LangSuffix(lang)]; ok {
		return v
	}
	return p[field]
}
