package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/recera/vango-styles/pkg/styling"
	"github.com/recera/vango-styles/pkg/styling/sheet"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestBuild_DedupAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "button.yaml", "color: red\npadding: 8\n\":hover\":\n  opacity: 0.8\n")
	b := writeFile(t, dir, "link.json", `{"color": "red", "textDecoration": "none"}`)

	results, s, err := build(styling.New(), []string{a, b}, sheet.NewText())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Len(t, results[0].Records, 3)
	assert.Len(t, results[1].Records, 2)
	assert.Equal(t, results[0].Records[0].ClassName, results[1].Records[0].ClassName)
	// color: red is shared
	assert.Len(t, s.Rules(), 4)
}

func TestBuild_ContinuesPastBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "width: 10\n")
	bad := writeFile(t, dir, "bad.yaml", "margin:\n  top: 1\n")
	missing := filepath.Join(dir, "missing.yaml")

	results, s, err := build(styling.New(), []string{bad, missing, good}, sheet.NewText())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, styling.ErrSchema)

	require.Len(t, results, 3)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, []string{"." + results[2].ClassName + " { width: 10px; }"}, s.Rules())

	table := renderTable(results)
	assert.Contains(t, table, "good.yaml")
	assert.Contains(t, table, "1 rules")
	assert.Contains(t, table, "error")
}

func TestBuild_TypedMode(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "box.yaml", "marginTop: 4\n\":focus\":\n  outlineColor: red\n")

	typed := sheet.NewTyped()
	results, _, err := build(styling.New(), []string{p}, typed)
	require.NoError(t, err)

	v, ok := typed.Lookup(results[0].Records[0].Selector(), "margin-top")
	require.True(t, ok)
	assert.Equal(t, "4px", v)
}

func TestWriteSheet(t *testing.T) {
	s := sheet.NewText()
	_, err := s.InsertRule(".r_a { color: red; }")
	require.NoError(t, err)

	var css, html bytes.Buffer
	require.NoError(t, writeSheet(&css, s, false))
	require.NoError(t, writeSheet(&html, s, true))
	assert.Equal(t, ".r_a { color: red; }\n", css.String())
	assert.Equal(t, "<style id=\"useStylesStylesheet\">\n.r_a { color: red; }\n</style>\n", html.String())
}

func TestWrapClasses(t *testing.T) {
	assert.Equal(t, "a b", wrapClasses("a b"))
	assert.Equal(t, "a b c d\ne f", wrapClasses("a b c d e f"))
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "card.yaml", "display: flex\ngap: 12\n")
	out := filepath.Join(dir, "out.css")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--log-level", "none", "build", "-o", out, p})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "display: flex;")
	assert.Contains(t, lines[1], "gap: 12px;")
	assert.Contains(t, stdout.String(), "card.yaml")
}

func TestBuildCommand_StdoutCarriesSheet(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "card.yaml", "display: flex\n")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--log-level", "none", "build", p})
	require.NoError(t, cmd.Execute())

	assert.True(t, strings.HasPrefix(stdout.String(), ".r_"), stdout.String())
	assert.Contains(t, stderr.String(), "card.yaml")
}

func TestBuildCommand_DebugLogsStayOffStdout(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "card.yaml", "display: flex\ngap: 12\n")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--log-level", "debug", "build", "-q", p})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2, stdout.String())
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, ".r_"), line)
	}
	assert.Contains(t, stderr.String(), "New rule")
}

func TestConfigCommand(t *testing.T) {
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--log-level", "none", "config"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "sheet_mode: text")
}
