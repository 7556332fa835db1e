package terminology

import "testing"

func TestDefaultCatalogLookup(t *testing.T) {
	catalog := DefaultCatalog()

	concept, ok := catalog.Lookup("diabetes")
	if !ok {
		t.Fatal("expected diabetes in default catalog")
	}
	if concept.ICD10 != "E11" {
		t.Fatalf("expected ICD-10 E11, got %s", concept.ICD10)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Lookup("Hypertension"); !ok {
		t.Fatal("expected case-insensitive lookup")
	}
}

func TestLookupMiss(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Lookup("unknown term"); ok {
		t.Fatal("expected miss for unknown term")
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	catalog, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := catalog.Lookup("fever"); !ok {
		t.Fatal("expected defaults when no path configured")
	}
}
