package generator

import (
	"fmt"
	"regexp"
	"time"
)

// Output names look like CV_Jane_Doe_Acme_2026-08-29.pdf. The character
// set keeps alphanumerics plus German accented letters so names stay
// readable on both sides of the localization. Generating the same
// company on the same day reuses the name and overwrites the previous
// artifact; that is deliberate last-write-wins behavior for the common
// "regenerate after a typo fix" loop.
var (
	companyUnsafe  = regexp.MustCompile(`[^a-zA-Z0-9äöüÄÖÜß]`)
	nameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9äöüÄÖÜß ]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// deriveFilename builds the PDF output name from the job's company (or the
// configuration name when absent), the profile's display name, and the day.
func deriveFilename(profileName, company, configName string, day time.Time) string {
	target := company
	if target == "" {
		target = configName
	}
	if target == "" {
		target = "cv"
	}
	target = companyUnsafe.ReplaceAllString(target, "_")

	owner := profileName
	if owner == "" {
		owner = "CV"
	}
	owner = nameDisallowed.ReplaceAllString(owner, "")
	owner = whitespaceRun.ReplaceAllString(owner, "_")

	return fmt.Sprintf("CV_%s_%s_%s.pdf", owner, target, day.Format("2006-01-02"))
}
