package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texlerc/common"
	"texlerc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const copyProgram = `
entry:
  name: process
  body:
    - file: {name: input, path: "in.txt"}
    - file: {name: output, path: "STDOUT"}
    - loop:
        var: line
        in: {call: {receiver: input, steps: [{lines: []}]}}
        do: {assign: {to: output, value: {ref: line}}}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRunBuild_GeneratesProgram(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	astPath := filepath.Join(dir, "copy.yaml")
	outPath := filepath.Join(dir, "copy.c")
	writeFile(t, astPath, copyProgram)

	var out bytes.Buffer

	// Act
	ok := runBuild(buildOptions{ASTPath: astPath, Output: outPath}, &out)

	// Assert
	require.True(t, ok, out.String())
	assert.Contains(t, out.String(), "Generation Succeeded")

	code, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(code), "int process(void) {")
	assert.Contains(t, string(code), "return process();")
}

func TestRunBuild_UsesProjectFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "copy.yaml"), copyProgram)
	require.NoError(t, config.Init(dir, "copy.yaml"))

	var out bytes.Buffer

	// Act
	ok := runBuild(buildOptions{ConfigPath: filepath.Join(dir, common.ConfigFileName), LogLevel: "silent"}, &out)

	// Assert
	require.True(t, ok)
	assert.Empty(t, out.String())
	assert.FileExists(t, filepath.Join(dir, common.DefaultOutputName))
}

func TestRunBuild_FindsProjectFileNextToTree(t *testing.T) {
	dir := t.TempDir()
	astPath := filepath.Join(dir, "copy.yaml")
	writeFile(t, astPath, copyProgram)
	writeFile(t, filepath.Join(dir, common.ConfigFileName), "[runtime]\nbuffer-size = 1024\n\n[build]\noutput = \"gen.c\"\n")

	var out bytes.Buffer
	ok := runBuild(buildOptions{ASTPath: astPath, LogLevel: "error"}, &out)

	require.True(t, ok, out.String())
	code, err := os.ReadFile(filepath.Join(dir, "gen.c"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "#define BUFFER_SIZE 1024")
}

func TestRunBuild_ElseBranchReachesOutput(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	astPath := filepath.Join(dir, "branch.yaml")
	outPath := filepath.Join(dir, "branch.c")
	writeFile(t, astPath, `
entry:
  name: process
  body:
    - declare: {name: a, number: 1}
    - file: {name: output, path: "STDOUT"}
    - if:
        cond: {eq: [{ref: a}, {number: 2}]}
        then: {assign: {to: output, value: {string: "same"}}}
        else: {assign: {to: output, value: {string: "different"}}}
`)

	var out bytes.Buffer

	// Act
	ok := runBuild(buildOptions{ASTPath: astPath, Output: outPath, LogLevel: "error"}, &out)

	// Assert
	require.True(t, ok, out.String())
	code, err := os.ReadFile(outPath)
	require.NoError(t, err)

	body := string(code)
	fnAt := strings.Index(body, "int process(void) {")
	require.GreaterOrEqual(t, fnAt, 0)
	body = body[fnAt:]

	elseAt := strings.Index(body, "} else {")
	require.GreaterOrEqual(t, elseAt, 0)
	assert.Contains(t, body[elseAt:], `copy_buffer_content("different", output->value.file.stream)`)
}

func TestRunBuild_DecodeErrorFails(t *testing.T) {
	dir := t.TempDir()
	astPath := filepath.Join(dir, "bad.yaml")
	outPath := filepath.Join(dir, "bad.c")
	writeFile(t, astPath, "entry:\n  name: process\n  body:\n    - assign: {to: missing, value: {number: 1}}\n")

	var out bytes.Buffer
	ok := runBuild(buildOptions{ASTPath: astPath, Output: outPath, LogLevel: "error"}, &out)

	assert.False(t, ok)
	assert.Contains(t, out.String(), "Decode Error")
	assert.NoFileExists(t, outPath)
}

func TestRunBuild_GenerationErrorRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	astPath := filepath.Join(dir, "bad.yaml")
	outPath := filepath.Join(dir, "bad.c")
	writeFile(t, astPath, "entry:\n  name: process\n  body:\n    - file: {name: data, path: \"d.txt\"}\n")

	var out bytes.Buffer
	ok := runBuild(buildOptions{ASTPath: astPath, Output: outPath, LogLevel: "error"}, &out)

	assert.False(t, ok)
	assert.Contains(t, out.String(), "File Name Error")
	assert.NoFileExists(t, outPath)
}

func TestRunBuild_InvalidProjectFileFails(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, common.ConfigFileName)
	writeFile(t, confPath, "[runtime]\nbuffer-size = 2\n")

	var out bytes.Buffer
	ok := runBuild(buildOptions{ConfigPath: confPath}, &out)

	assert.False(t, ok)
	assert.Contains(t, out.String(), "Config Error")
}

func TestRunBuild_NothingToBuild(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, common.ConfigFileName)
	writeFile(t, confPath, "[build]\noutput = \"x.c\"\n")

	var out bytes.Buffer
	ok := runBuild(buildOptions{ConfigPath: confPath}, &out)

	assert.False(t, ok)
	assert.Contains(t, out.String(), "Usage Error")
}
