package profile

import "testing"

func sampleRecord() FormRecord {
	return FormRecord{
		FullName:     "Asha Rao",
		AgeGroup:     AgeGroup14to16,
		Interests:    "football, stories",
		CulturalRefs: "IPL, Diwali",
		Hardest:      HardestProducing,
		Audience:     AudiencePeers,
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal records produced different fingerprints")
	}
}

func TestFingerprint_ChangesWithEachField(t *testing.T) {
	base := sampleRecord()

	mutations := map[string]func(*FormRecord){
		"full_name":     func(r *FormRecord) { r.FullName = "Ravi Rao" },
		"age_group":     func(r *FormRecord) { r.AgeGroup = AgeGroup17to18 },
		"interests":     func(r *FormRecord) { r.Interests = "chess" },
		"cultural_refs": func(r *FormRecord) { r.CulturalRefs = "Holi" },
		"hardest":       func(r *FormRecord) { r.Hardest = HardestAnalyzing },
		"audience":      func(r *FormRecord) { r.Audience = AudienceYounger },
	}

	for name, mutate := range mutations {
		rec := sampleRecord()
		mutate(&rec)
		if rec.Fingerprint() == base.Fingerprint() {
			t.Errorf("mutating %s did not change the fingerprint", name)
		}
	}
}

func TestValidate_CompleteRecord(t *testing.T) {
	errs := Validate(sampleRecord())
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_OneErrorPerField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*FormRecord)
		field  string
	}{
		{"missing name", func(r *FormRecord) { r.FullName = "  " }, FieldFullName},
		{"missing age group", func(r *FormRecord) { r.AgeGroup = "" }, FieldAgeGroup},
		{"invalid age group", func(r *FormRecord) { r.AgeGroup = "19-21" }, FieldAgeGroup},
		{"missing hardest", func(r *FormRecord) { r.Hardest = "" }, FieldHardest},
		{"invalid hardest", func(r *FormRecord) { r.Hardest = "Reading" }, FieldHardest},
		{"missing audience", func(r *FormRecord) { r.Audience = "" }, FieldAudience},
		{"invalid audience", func(r *FormRecord) { r.Audience = "teachers" }, FieldAudience},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := sampleRecord()
			tc.mutate(&rec)
			errs := Validate(rec)
			if len(errs) != 1 {
				t.Fatalf("expected exactly 1 error, got %d: %v", len(errs), errs)
			}
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error for field %s, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidate_OptionalFieldsNotRequired(t *testing.T) {
	rec := sampleRecord()
	rec.Interests = ""
	rec.CulturalRefs = ""
	if !Valid(rec) {
		t.Fatal("interests and cultural refs should be optional")
	}
}
