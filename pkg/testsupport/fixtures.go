package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads testdata/<name> relative to the calling package and
// fails the test when it is missing.
func LoadFixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("load fixture %s: %v", name, err)
	}
	return data
}

// LoadGolden decodes the JSON fixture testdata/<name> into v.
func LoadGolden(t testing.TB, name string, v any) {
	t.Helper()
	if err := json.Unmarshal(LoadFixture(t, name), v); err != nil {
		t.Fatalf("decode golden %s: %v", name, err)
	}
}
