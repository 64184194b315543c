package model

import "testing"

func TestParseEntityKind(t *testing.T) {
	for _, valid := range []string{"Company", "Certification", "Standard", "Substance", "ClaimTopic"} {
		if _, ok := ParseEntityKind(valid); !ok {
			t.Errorf("Expected %q to parse", valid)
		}
	}
	if _, ok := ParseEntityKind("Widget"); ok {
		t.Error("Expected unknown kind to be rejected")
	}
}

func TestParseRelationType(t *testing.T) {
	for _, valid := range []string{"CLAIMS", "VERIFIES", "COMPLIES_WITH", "CONTAINS", "VIOLATES"} {
		if _, ok := ParseRelationType(valid); !ok {
			t.Errorf("Expected %q to parse", valid)
		}
	}
	if _, ok := ParseRelationType("LIKES"); ok {
		t.Error("Expected unknown relation type to be rejected")
	}
}

func TestEntity_DisplayName(t *testing.T) {
	named := Entity{Key: "usda_organic", Name: "USDA Organic"}
	if named.DisplayName() != "USDA Organic" {
		t.Errorf("Expected name, got %q", named.DisplayName())
	}
	unnamed := Entity{Key: "usda_organic"}
	if unnamed.DisplayName() != "usda_organic" {
		t.Errorf("Expected key fallback, got %q", unnamed.DisplayName())
	}
}

func TestEntity_FloatAttr_YAMLNumericForms(t *testing.T) {
	// YAML decodes whole numbers as int; both forms must read back.
	e := Entity{Attrs: map[string]any{
		"as_float": 0.9,
		"as_int":   1,
	}}
	if v, ok := e.FloatAttr("as_float"); !ok || v != 0.9 {
		t.Errorf("Expected 0.9, got %v (ok=%v)", v, ok)
	}
	if v, ok := e.FloatAttr("as_int"); !ok || v != 1.0 {
		t.Errorf("Expected 1.0, got %v (ok=%v)", v, ok)
	}
	if _, ok := e.FloatAttr("missing"); ok {
		t.Error("Expected missing attribute to report absent")
	}
	e.Attrs["not_numeric"] = "high"
	if _, ok := e.FloatAttr("not_numeric"); ok {
		t.Error("Expected non-numeric attribute to report absent")
	}
}

func TestEntity_TrustRating(t *testing.T) {
	e := Entity{Attrs: map[string]any{"trust_rating": 0.95}}
	if v, ok := e.TrustRating(); !ok || v != 0.95 {
		t.Errorf("Expected 0.95, got %v (ok=%v)", v, ok)
	}
	bare := Entity{}
	if _, ok := bare.TrustRating(); ok {
		t.Error("Expected absent trust_rating to report absent")
	}
}

func TestEntity_StringListAttr(t *testing.T) {
	// YAML decodes lists as []any.
	e := Entity{Attrs: map[string]any{"banned_under": []any{"EPA", "REACH"}}}
	got := e.StringListAttr("banned_under")
	if len(got) != 2 || got[0] != "EPA" || got[1] != "REACH" {
		t.Errorf("Expected [EPA REACH], got %v", got)
	}

	typed := Entity{Attrs: map[string]any{"banned_under": []string{"EPA"}}}
	if got := typed.StringListAttr("banned_under"); len(got) != 1 || got[0] != "EPA" {
		t.Errorf("Expected [EPA], got %v", got)
	}

	if got := e.StringListAttr("missing"); got != nil {
		t.Errorf("Expected nil for missing attribute, got %v", got)
	}
}

func TestEntity_Questionable(t *testing.T) {
	flagged := Entity{Attrs: map[string]any{"questionable": true}}
	if !flagged.Questionable() {
		t.Error("Expected flagged entity to report questionable")
	}
	clean := Entity{Attrs: map[string]any{"questionable": false}}
	if clean.Questionable() {
		t.Error("Expected unflagged entity to report not questionable")
	}
	bare := Entity{}
	if bare.Questionable() {
		t.Error("Expected entity without the attribute to report not questionable")
	}
}
