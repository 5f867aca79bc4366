package profile

import "strings"

// Age group options offered on the intake form.
const (
	AgeGroup10to13 = "10-13"
	AgeGroup14to16 = "14-16"
	AgeGroup17to18 = "17-18"
)

// "Which is hardest for you?" options.
const (
	HardestAnalyzing = "Analyzing"
	HardestProducing = "Producing"
)

// Audience options.
const (
	AudiencePeers   = "peers"
	AudienceYounger = "younger students"
)

// AgeGroups lists the valid age group values in display order.
var AgeGroups = []string{AgeGroup10to13, AgeGroup14to16, AgeGroup17to18}

// HardestOptions lists the valid "hardest" values in display order.
var HardestOptions = []string{HardestAnalyzing, HardestProducing}

// Audiences lists the valid audience values in display order.
var Audiences = []string{AudiencePeers, AudienceYounger}

// FormRecord is the student intake profile. JSON field names match the
// backend onboarding payload exactly.
type FormRecord struct {
	FullName     string `json:"full_name"`
	AgeGroup     string `json:"age_group"`
	Interests    string `json:"interests"`
	CulturalRefs string `json:"cultural_refs"`
	Hardest      string `json:"hardest"`
	Audience     string `json:"audience"`
}

// Defaults returns an empty form record. Loading persisted data merges
// over this so the shape is always complete.
func Defaults() FormRecord {
	return FormRecord{}
}

// Fingerprint derives a deterministic key from all six fields. A scenario
// stamped with a fingerprint is only valid while the form still produces
// the same one.
func (r FormRecord) Fingerprint() string {
	return strings.Join([]string{
		r.FullName,
		r.AgeGroup,
		r.Interests,
		r.CulturalRefs,
		r.Hardest,
		r.Audience,
	}, "-")
}

// IsZero reports whether the record is entirely empty.
func (r FormRecord) IsZero() bool {
	return r == FormRecord{}
}
