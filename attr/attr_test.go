package attr

import "testing"

func TestGetPutRoundTrip(t *testing.T) {
	key := NewKey[int]("retries")

	var m Map
	m = Put(m, key, 7)

	got, ok := Get(m, key)
	if !ok {
		t.Fatal("expected value after Put")
	}
	if got != 7 {
		t.Errorf("Get = %d, want 7", got)
	}
}

func TestGetMissing(t *testing.T) {
	key := NewKey[string]("missing")

	var m Map
	got, ok := Get(m, key)
	if ok {
		t.Error("expected no value in empty map")
	}
	if got != "" {
		t.Errorf("missing value should be zero, got %q", got)
	}
}

func TestRemove(t *testing.T) {
	key := NewKey[string]("workdir")

	var m Map
	m = Put(m, key, "/tmp/project")
	m = Remove(m, key)

	if _, ok := Get(m, key); ok {
		t.Error("expected no value after Remove")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	key := NewKey[int]("absent")

	var m Map
	m2 := Remove(m, key)
	if m2.Len() != 0 {
		t.Errorf("Len = %d, want 0", m2.Len())
	}
}

func TestContains(t *testing.T) {
	key := NewKey[bool]("verbose")

	var m Map
	if Contains(m, key) {
		t.Error("empty map should not contain key")
	}
	m = Put(m, key, true)
	if !Contains(m, key) {
		t.Error("map should contain key after Put")
	}
}

func TestStructValues(t *testing.T) {
	type buildInfo struct {
		Target string
		Count  int
	}
	key := NewKey[buildInfo]("build-info")

	var m Map
	m = Put(m, key, buildInfo{Target: "dist", Count: 3})

	got, ok := Get(m, key)
	if !ok {
		t.Fatal("expected value")
	}
	if got.Target != "dist" || got.Count != 3 {
		t.Errorf("Get = %+v", got)
	}
}

func TestTypeMismatchYieldsAbsence(t *testing.T) {
	// Two keys sharing a name across types: the mistyped lookup must
	// observe absence, never a mistyped value.
	intKey := NewKey[int]("shared")
	strKey := NewKey[string]("shared")

	var m Map
	m = Put(m, intKey, 42)

	if _, ok := Get(m, strKey); ok {
		t.Error("lookup under a differently-typed key must fail")
	}
	if Contains(m, strKey) {
		t.Error("Contains must respect the key's declared type")
	}
	if got, ok := Get(m, intKey); !ok || got != 42 {
		t.Errorf("original key should still resolve, got %d, %v", got, ok)
	}
}

func TestPutIsImmutable(t *testing.T) {
	key := NewKey[int]("count")

	var m Map
	m1 := Put(m, key, 1)
	m2 := Put(m1, key, 2)

	if got, _ := Get(m1, key); got != 1 {
		t.Errorf("earlier snapshot changed: got %d, want 1", got)
	}
	if got, _ := Get(m2, key); got != 2 {
		t.Errorf("later snapshot wrong: got %d, want 2", got)
	}
	if _, ok := Get(m, key); ok {
		t.Error("zero-value map must stay empty")
	}
}

func TestOverwrite(t *testing.T) {
	key := NewKey[string]("target")

	var m Map
	m = Put(m, key, "debug")
	m = Put(m, key, "release")

	if got, _ := Get(m, key); got != "release" {
		t.Errorf("Get = %q, want %q", got, "release")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}
