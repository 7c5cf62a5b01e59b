package models

import (
	"encoding/json"
	"testing"
)

func TestCatalogUnmarshal_PreservesOrder(t *testing.T) {
	input := `{
		"models": {
			"zeta": {"display_name": "Zeta", "fields": ["goals"]},
			"alpha": {"display_name": "", "fields": ["goals", "pos"]}
		},
		"categorical_fields": ["pos", "result"]
	}`

	var c Catalog
	if err := json.Unmarshal([]byte(input), &c); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if len(c.Models) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(c.Models))
	}
	if c.Models[0].Key != "zeta" || c.Models[1].Key != "alpha" {
		t.Errorf("order = %s,%s; want zeta,alpha", c.Models[0].Key, c.Models[1].Key)
	}
	if c.Models[1].Name() != "alpha" {
		t.Errorf("Name() fallback = %q, want alpha", c.Models[1].Name())
	}
	if !c.CategoricalFields.Contains("pos") || c.CategoricalFields.Contains("goals") {
		t.Errorf("categorical fields = %v", c.CategoricalFields.Names())
	}

	m, ok := c.Lookup("alpha")
	if !ok || len(m.Fields) != 2 {
		t.Errorf("Lookup(alpha) = %+v, %v", m, ok)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	c := Catalog{
		Models: []ModelDescriptor{
			{Key: "b", DisplayName: "B", Fields: []string{"goals"}},
			{Key: "a", DisplayName: "A", Fields: []string{"pos"}},
		},
		CategoricalFields: NewCategoricalFieldSet("pos"),
		FieldKinds: map[string]FieldKindSpec{
			"pos": {Kind: FieldKindEnumerated, Options: []FieldOption{{Value: "GK", Label: "Goalkeeper"}}},
		},
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Catalog
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Models[0].Key != "b" || back.Models[1].Key != "a" {
		t.Errorf("order lost: %s", data)
	}
	if back.FieldKinds["pos"].Options[0].Value != "GK" {
		t.Errorf("field kinds lost: %s", data)
	}
}

func TestCatalogUnmarshal_NullModels(t *testing.T) {
	var c Catalog
	if err := json.Unmarshal([]byte(`{"models": null}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !c.Empty() {
		t.Error("expected empty catalog")
	}
}
