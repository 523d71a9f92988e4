package query

import "testing"

func TestInferPriority(t *testing.T) {
	cases := map[string]Category{
		"What is our leave policy?":                   Policy,
		"Which employee leads the policy review?":     Policy,
		"How many people are in the QA Department?":   Employee,
		"Show me EMPLOYEE 42":                         Employee,
		"Describe the company structure":              Organization,
		"Organization chart please":                   Organization,
		"Which department owns company laptops?":      Employee,
		"hello":                                       Default,
		"":                                            Default,
	}

	for input, want := range cases {
		if got := Infer(input); got != want {
			t.Fatalf("Infer(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestFallbackPolicyScenario(t *testing.T) {
	category := Infer("What is our leave policy?")
	if category != Policy {
		t.Fatalf("expected policy category, got %s", category)
	}
	if got := Fallback(category); got != fallbacks[Policy] {
		t.Fatalf("unexpected policy fallback: %q", got)
	}
}

func TestFallbackTotal(t *testing.T) {
	inputs := []Category{Employee, Policy, Organization, Default, "", "project", "POLICY", "💥"}
	for _, c := range inputs {
		if Fallback(c) == "" {
			t.Fatalf("Fallback(%q) returned empty text", c)
		}
	}

	if Fallback("unknown") != fallbacks[Default] {
		t.Fatal("expected unknown category to use the default fallback")
	}
	if Fallback("POLICY") != fallbacks[Policy] {
		t.Fatal("expected category lookup to ignore case")
	}
}

func TestParseCategory(t *testing.T) {
	if ParseCategory(" Organization ") != Organization {
		t.Fatal("expected organization")
	}
	if ParseCategory("department") != Default {
		t.Fatal("department is a keyword, not a category")
	}
}
