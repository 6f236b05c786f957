package config

import (
	"path/filepath"
	"testing"
)

func TestFromArgs(t *testing.T) {
	cfg, err := FromArgs(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "." || cfg.Port != 8080 {
		t.Fatalf("defaults wrong: %+v", cfg)
	}

	cfg, err = FromArgs([]string{"/srv/share"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Root != "/srv/share" || cfg.Port != 8080 {
		t.Fatalf("root-only wrong: %+v", cfg)
	}

	cfg, err = FromArgs([]string{"/srv/share", "9000"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("port wrong: %+v", cfg)
	}

	for _, bad := range []string{"0", "-1", "70000", "abc"} {
		if _, err := FromArgs([]string{".", bad}); err == nil {
			t.Errorf("port %q: want error", bad)
		}
	}
}

func TestFinalize(t *testing.T) {
	cfg := Config{Root: "."}
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(cfg.Root) {
		t.Errorf("root not absolute: %q", cfg.Root)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.Addr())
	}
}
