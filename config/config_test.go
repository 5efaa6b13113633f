package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"memscan/scanner"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), conf); diff != "" {
		t.Errorf("missing file did not give defaults (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
workers: 3
alignment: 1
require-writable: false
region-level: heap-stack-exe-bss
`)
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Workers = 3
	want.Alignment = 1
	want.RequireWritable = false
	want.RegionLevel = "heap-stack-exe-bss"
	if diff := cmp.Diff(want, conf); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	opts, err := conf.ScannerOptions()
	if err != nil {
		t.Fatal(err)
	}
	got := scanner.DefaultOptions()
	for _, opt := range opts {
		opt(&got)
	}
	wantOpts := scanner.Options{
		Workers:         3,
		Alignment:       1,
		ChunkSize:       scanner.DefaultChunkSize,
		RequireWritable: false,
		RegionLevel:     scanner.RegionHeapStackExecutableBSS,
	}
	if diff := cmp.Diff(wantOpts, got); diff != "" {
		t.Errorf("ScannerOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "workers: [",
		"zero workers": "workers: 0",
		"bad level":    "region-level: everything",
		"negative":     "alignment: -4",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, contents)); err == nil {
				t.Errorf("Load(%q) succeeded", contents)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	conf := Default()
	conf.MaxList = 5
	data, err := conf.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "max-list: 5") {
		t.Errorf("Marshal output missing max-list:\n%s", data)
	}

	loaded, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(conf, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
