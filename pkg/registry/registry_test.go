package registry

import (
	"testing"

	"sahayata-hq/ceres/pkg/scheme/compiler"
)

func testProgram(id, hash string) *compiler.CompiledProgram {
	return &compiler.CompiledProgram{SchemeID: id, SchemeName: id, ContentHash: hash}
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewSchemeRegistry()

	if err := reg.Register(testProgram("pm_kisan", "aaaa")); err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}

	p, ok := reg.Get("pm_kisan")
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if p.SchemeID != "pm_kisan" {
		t.Errorf("SchemeID = %q, want %q", p.SchemeID, "pm_kisan")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}

	if _, ok := reg.Get("unknown"); ok {
		t.Error("Get(unknown) ok = true, want false")
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewSchemeRegistry()

	if err := reg.Register(nil); err == nil {
		t.Error("Register(nil) error = nil, want error")
	}
	if err := reg.Register(testProgram("", "aaaa")); err == nil {
		t.Error("Register with empty id error = nil, want error")
	}
}

func TestReplaceSwapsProgramSet(t *testing.T) {
	reg := NewSchemeRegistry()
	reg.Register(testProgram("old_scheme", "aaaa"))

	err := reg.Replace([]*compiler.CompiledProgram{
		testProgram("pm_kisan", "bbbb"),
		testProgram("widow_pension", "cccc"),
	})
	if err != nil {
		t.Fatalf("Replace() error = %v, want nil", err)
	}

	if _, ok := reg.Get("old_scheme"); ok {
		t.Error("old program should be gone after replace")
	}
	wantIDs := []string{"pm_kisan", "widow_pension"}
	ids := reg.SchemeIDs()
	if len(ids) != len(wantIDs) {
		t.Fatalf("SchemeIDs() = %v, want %v", ids, wantIDs)
	}
	for i, id := range wantIDs {
		if ids[i] != id {
			t.Errorf("SchemeIDs()[%d] = %q, want %q", i, ids[i], id)
		}
	}
}

func TestGetAllSortedByID(t *testing.T) {
	reg := NewSchemeRegistry()
	reg.Register(testProgram("widow_pension", "aaaa"))
	reg.Register(testProgram("pm_kisan", "bbbb"))

	programs := reg.GetAll()
	if len(programs) != 2 {
		t.Fatalf("len(GetAll()) = %d, want 2", len(programs))
	}
	if programs[0].SchemeID != "pm_kisan" || programs[1].SchemeID != "widow_pension" {
		t.Errorf("GetAll() order = %q, %q, want sorted by id", programs[0].SchemeID, programs[1].SchemeID)
	}
}

func TestUnregister(t *testing.T) {
	reg := NewSchemeRegistry()
	reg.Register(testProgram("pm_kisan", "aaaa"))

	if err := reg.Unregister("pm_kisan"); err != nil {
		t.Fatalf("Unregister() error = %v, want nil", err)
	}
	if reg.Count() != 0 {
		t.Errorf("Count() = %d, want 0", reg.Count())
	}

	if err := reg.Unregister("pm_kisan"); err == nil {
		t.Error("Unregister of absent scheme error = nil, want error")
	}
}

func TestVersionTracksContent(t *testing.T) {
	reg := NewSchemeRegistry()

	reg.Register(testProgram("pm_kisan", "aaaa"))
	v1 := reg.Version()
	if len(v1) != 16 {
		t.Errorf("Version() = %q, want 16 hex chars", v1)
	}

	// Same content hash again: version is unchanged.
	reg.Register(testProgram("pm_kisan", "aaaa"))
	if reg.Version() != v1 {
		t.Error("re-registering identical content should not change the version")
	}

	// New content hash: version changes.
	reg.Register(testProgram("pm_kisan", "bbbb"))
	if reg.Version() == v1 {
		t.Error("changed content should change the version")
	}
}
