package profile

import "strings"

// Field names used as keys in validation error maps.
const (
	FieldFullName = "full_name"
	FieldAgeGroup = "age_group"
	FieldHardest  = "hardest"
	FieldAudience = "audience"
)

// Validate checks the four required fields. It returns one message per
// offending field, keyed by field name. An empty map means the record is
// ready for submission. Interests and cultural refs are optional.
func Validate(r FormRecord) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.FullName) == "" {
		errs[FieldFullName] = "Full name is required"
	}

	switch {
	case r.AgeGroup == "":
		errs[FieldAgeGroup] = "Age group is required"
	case !contains(AgeGroups, r.AgeGroup):
		errs[FieldAgeGroup] = "Please select a valid age group"
	}

	switch {
	case r.Hardest == "":
		errs[FieldHardest] = "Please select which is hardest for you"
	case !contains(HardestOptions, r.Hardest):
		errs[FieldHardest] = "Please select Analyzing or Producing"
	}

	switch {
	case r.Audience == "":
		errs[FieldAudience] = "Please select your audience"
	case !contains(Audiences, r.Audience):
		errs[FieldAudience] = "Please select peers or younger students"
	}

	return errs
}

// Valid reports whether the record passes submission validation.
func Valid(r FormRecord) bool {
	return len(Validate(r)) == 0
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
