package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pipefy/pipefy-mcp/internal/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "pipefy-mcp v") {
		t.Errorf("output = %q", out.String())
	}
}

func TestServeFlags(t *testing.T) {
	cmd := newServeCmd()
	if f := cmd.Flags().Lookup("env-file"); f == nil || f.DefValue != ".env" {
		t.Errorf("env-file flag = %+v", f)
	}
	if cmd.Flags().Lookup("config") == nil {
		t.Error("config flag missing")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	for _, key := range []string{config.EnvOAuthClient, config.EnvOAuthSecret} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	err := run(context.Background(), config.Options{EnvFile: filepath.Join(t.TempDir(), "none.env")})
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
