package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellwin.toml")
	data := "title = \"demo\"\ncolumns = 100\nrows = 40\nmouse = false\ndump_screens = \"/tmp/dumps\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Title = "demo"
	want.Columns = 100
	want.Rows = 40
	want.Mouse = false
	want.DumpScreens = "/tmp/dumps"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellwin.toml")
	if err := os.WriteFile(path, []byte("colums = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "colums") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	_, err := Parse("columns = 0\nframe_rate = 0\njoystick_threshold = 2.0\n")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"1x1", "frame_rate", "joystick_threshold"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}
