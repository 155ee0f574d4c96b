package options

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLastWins(t *testing.T) {
	v := Parse([]string{"-num-threads", "2", "-num-threads", "4", "a.swift"})
	got, ok := v.String("num-threads")
	if !ok || got != "4" {
		t.Fatalf("String(num-threads) = %q, %v, want 4, true", got, ok)
	}
	if diff := cmp.Diff([]string{"a.swift"}, v.Inputs()); diff != "" {
		t.Errorf("Inputs() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBooleanFlag(t *testing.T) {
	v := Parse([]string{"-enable-batch-mode", "a.swift"})
	if !v.Has("enable-batch-mode") {
		t.Errorf("Has(enable-batch-mode) = false, want true")
	}
	if v.Has("disable-batch-mode") {
		t.Errorf("Has(disable-batch-mode) = true, want false")
	}
}

func TestExpandResponseFilesMissing(t *testing.T) {
	args := []string{"-o", "@/nonexistent/path/response.txt", "a.swift"}
	got, err := ExpandResponseFiles(args)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(args, got); diff != "" {
		t.Errorf("nonexistent response file should pass through unchanged (-want +got):\n%s", diff)
	}
}

func TestExpandResponseFilesSplitsAndDropsEmpty(t *testing.T) {
	dir := t.TempDir()
	rsp := filepath.Join(dir, "resp.txt")
	if err := ioutil.WriteFile(rsp, []byte("a.swift\n\nb.swift\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ExpandResponseFiles([]string{"-o", "out", "@" + rsp})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"-o", "out", "a.swift", "b.swift"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expanded response file mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAgainstWorkingDir(t *testing.T) {
	cases := []struct {
		wd, path, want string
	}{
		{"", "a.swift", "a.swift"},
		{"/work", "a.swift", "/work/a.swift"},
		{"/work", "-", "-"},
		{"/work", "/abs/a.swift", "/abs/a.swift"},
	}
	for _, c := range cases {
		if got := ResolveAgainstWorkingDir(c.wd, c.path); got != c.want {
			t.Errorf("ResolveAgainstWorkingDir(%q, %q) = %q, want %q", c.wd, c.path, got, c.want)
		}
	}
}
