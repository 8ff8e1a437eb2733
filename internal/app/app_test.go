package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkspace = `
param "x" {}
param "mean" { value = 5.0 }
param "sigma" { value = 1.2 }
param "k" { value = -0.4 }

real "x" {
  min = 0
  max = 10
}

category "tagCat" {
  states = ["Lep", "Kao"]
}

node "gauss" {
  kind     = "gaussian"
  operands = ["x", "mean", "sigma"]
}

node "argus" {
  kind     = "argus"
  operands = ["x", "k"]
}

model "pdfA" {
  root = "gauss"
}

model "pdfB" {
  root = "argus"
}

build "tagged" {
  phys_models = "tagCat : Lep=pdfA Kao=pdfB"
  split_cats  = "tagCat"
  rules = {
    pdfA = "tagCat : sigma"
  }
}
`

func newTestApp(t *testing.T, extra Config) (*App, *bytes.Buffer, *Config) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(testWorkspace), 0o600))

	cfg := extra
	cfg.WorkspacePath = dir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewApp(out, appConfig), out, appConfig
}

func TestNewConfigRequiresWorkspacePath(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
}

func TestNewAppPanicsOnBrokenWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(`param "p" {`), 0o600))

	cfg, err := NewConfig(Config{WorkspacePath: dir, LogLevel: "error"})
	require.NoError(t, err)

	require.Panics(t, func() {
		NewApp(&bytes.Buffer{}, cfg)
	})
}

func TestRunTemplateMode(t *testing.T) {
	a, out, cfg := newTestApp(t, Config{Template: true})

	require.NoError(t, a.Run(context.Background(), cfg))

	output := out.String()
	assert.Contains(t, output, `physModels = ""`)
	assert.Contains(t, output, `splitCats = ""`)
	assert.Contains(t, output, `pdfA = ""`)
	assert.Contains(t, output, `pdfB = ""`)
}

func TestRunAllDeclaredBuilds(t *testing.T) {
	a, out, cfg := newTestApp(t, Config{})

	require.NoError(t, a.Run(context.Background(), cfg))

	output := out.String()
	assert.Contains(t, output, "build tagged")
	assert.Contains(t, output, "Lep -> gauss_Lep (x, mean, sigma_Lep)")
	assert.Contains(t, output, "Kao -> argus (x, k)")
}

func TestRunUnknownBuildName(t *testing.T) {
	a, _, cfg := newTestApp(t, Config{BuildName: "ghost"})

	err := a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `build "ghost"`)
}
