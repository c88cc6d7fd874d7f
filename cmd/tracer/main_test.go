package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestVersionCommandPrintsVersion(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute version: %v", err)
	}
	if got := out.String(); got != version+"\n" {
		t.Errorf("version output = %q, want %q", got, version+"\n")
	}
}

func TestRenderCommandWritesPNGAndFramebuffer(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tiny.yaml")
	cfgYAML := "res_x: 8\nres_y: 6\ntile_w: 4\ntile_h: 4\npixel_samples_x: 1\npixel_samples_y: 1\nthread_count: 1\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	pngPath := filepath.Join(dir, "out.png")
	fbPath := filepath.Join(dir, "out.fb")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"render", "--config", cfgPath, "--out", pngPath, "--fb", fbPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute render: %v", err)
	}

	if fi, err := os.Stat(pngPath); err != nil || fi.Size() == 0 {
		t.Errorf("expected a non-empty PNG at %s: %v", pngPath, err)
	}
	if fi, err := os.Stat(fbPath); err != nil || fi.Size() == 0 {
		t.Errorf("expected a non-empty framebuffer at %s: %v", fbPath, err)
	}
}

func TestRenderCommandSkipsOutputsWhenPathsAreEmpty(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tiny.yaml")
	cfgYAML := "res_x: 4\nres_y: 4\ntile_w: 4\ntile_h: 4\npixel_samples_x: 1\npixel_samples_y: 1\nthread_count: 1\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"render", "--config", cfgPath, "--out", "", "--fb", ""})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute render: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output when --out and --fb are both empty, got %q", out.String())
	}
}
