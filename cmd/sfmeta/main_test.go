package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetingXML = `<?xml version="1.0" encoding="UTF-8"?>
<genAiPromptTemplate xmlns="http://soap.sforce.com/2006/04/metadata">
    <activeVersionIdentifier>g=_1</activeVersionIdentifier>
    <developerName>Greeting</developerName>
    <masterLabel>Greeting</masterLabel>
    <templateVersions>
        <content>Say hello to {!$Input:Name}&apos;s team</content>
        <status>Published</status>
        <versionIdentifier>g=_1</versionIdentifier>
    </templateVersions>
    <templateVersions>
        <content>Say hi</content>
        <status>Published</status>
        <versionIdentifier>g=_2</versionIdentifier>
    </templateVersions>
</genAiPromptTemplate>
`

const flowSchemaYAML = `types:
  - name: FlowVariable
    fields:
      - name: name
  - name: Flow
    extends: Metadata
    root:
      tag: Flow
      directory: flows
      suffix: flow
    fields:
      - name: label
      - name: variables
        type: FlowVariable
`

// run executes the CLI and returns what it wrote to stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

// project creates a config file whose project directory holds the greeting
// template.
func project(t *testing.T) (dir, cfg string) {
	t.Helper()

	dir = t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "genAiPromptTemplates", "Greeting.genAiPromptTemplate-meta.xml"), greetingXML)
	cfg = writeFile(t, filepath.Join(dir, "sfmeta.yaml"), "project_dir: "+filepath.Join(dir, "src")+"\n")

	return dir, cfg
}

func TestVersionCmd(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "sfmeta "+version)
	assert.Contains(t, out, "commit: "+commit)
}

func TestMetadataParse(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "g.xml"), greetingXML)

	out, _, err := run(t, "metadata", "parse", path)
	require.NoError(t, err)

	assert.Contains(t, out, "root: genAiPromptTemplate (GenAiPromptTemplate)")
	assert.Contains(t, out, "namespace: http://soap.sforce.com/2006/04/metadata")
	assert.Contains(t, out, "fields: 4")
	assert.NotContains(t, out, "warning")
}

func TestMetadataDump(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "g.xml"), greetingXML)

	out, _, err := run(t, "metadata", "dump", path)
	require.NoError(t, err)

	assert.Contains(t, out, `TypeName: (string) (len=19) "genAiPromptTemplate"`)
	assert.Contains(t, out, `"Say hi"`)
}

func TestMetadataFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "g.xml"), strings.ReplaceAll(greetingXML, "    ", "\t"))

	out, _, err := run(t, "metadata", "format", path)
	require.NoError(t, err)
	assert.Equal(t, greetingXML, out)

	_, _, err = run(t, "metadata", "format", "-i", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, greetingXML, string(data))
}

func TestMetadataGet(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "g.xml"), greetingXML)

	out, _, err := run(t, "metadata", "get", path, "templateVersions[0].content")
	require.NoError(t, err)
	assert.Equal(t, "Say hello to {!$Input:Name}'s team\n", out)

	out, _, err = run(t, "metadata", "get", path, "templateVersions[-1]")
	require.NoError(t, err)
	assert.Equal(t, `templateVersions[-1].content=Say hi
templateVersions[-1].status=Published
templateVersions[-1].versionIdentifier=g=_2
`, out)

	_, _, err = run(t, "metadata", "get", path, "templateVersions[5]")
	require.Error(t, err)

	_, _, err = run(t, "metadata", "get", path, "a..b")
	require.Error(t, err)
}

func TestMetadataSet(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "g.xml"), greetingXML)
	dst := filepath.Join(dir, "out.xml")

	_, _, err := run(t, "metadata", "set", path, "templateVersions[1].status", "Draft", "-o", dst)
	require.NoError(t, err)

	out, _, err := run(t, "metadata", "get", dst, "templateVersions[1].status")
	require.NoError(t, err)
	assert.Equal(t, "Draft\n", out)

	// the input is untouched
	out, _, err = run(t, "metadata", "get", path, "templateVersions[1].status")
	require.NoError(t, err)
	assert.Equal(t, "Published\n", out)
}

func TestMetadataMissingFile(t *testing.T) {
	_, _, err := run(t, "metadata", "parse", filepath.Join(t.TempDir(), "none.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open metadata file")
}

func TestPromptTemplateChain(t *testing.T) {
	dir, cfg := project(t)

	out, _, err := run(t, "prompt-template",
		"load-prompt", "--api-name", "Greeting",
		"new-version",
		"save-prompt", "--variant", "next",
		"--config", cfg)
	require.NoError(t, err)

	saved := filepath.Join(dir, "src", "genAiPromptTemplates", "Greeting-next.genAiPromptTemplate-meta.xml")
	assert.Contains(t, out, "Saving metadata file: "+saved)

	got, _, err := run(t, "metadata", "get", saved, "templateVersions[-1]")
	require.NoError(t, err)
	assert.Equal(t, `templateVersions[-1].content=Say hi
templateVersions[-1].status=Draft
templateVersions[-1].versionIdentifier=g=_3
`, got)
}

func TestPromptTemplateClone(t *testing.T) {
	dir, cfg := project(t)

	_, _, err := run(t, "--config", cfg, "prompt-template",
		"load-prompt", "--api-name", "Greeting",
		"clone-prompt", "--api-suffix", "copy", "--label-suffix", "(Copy)",
		"set-status", "--status", "Draft",
		"save-prompt")
	require.NoError(t, err)

	saved := filepath.Join(dir, "src", "genAiPromptTemplates", "Greeting_copy.genAiPromptTemplate-meta.xml")

	out, _, err := run(t, "metadata", "get", saved, "masterLabel")
	require.NoError(t, err)
	assert.Equal(t, "Greeting (Copy)\n", out)

	out, _, err = run(t, "metadata", "get", saved, "templateVersions")
	require.NoError(t, err)
	assert.Equal(t, "templateVersions[0].content=Say hi\ntemplateVersions[0].status=Draft\n", out)
}

func TestParseStepsFlagValueNamedLikeStep(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		steps []string
	}{
		{
			name:  "separate value",
			args:  []string{"clone-prompt", "--label-suffix", "new-version", "--api-suffix", "x"},
			steps: []string{"clone-prompt"},
		},
		{
			name:  "inline value",
			args:  []string{"clone-prompt", "--label-suffix=new-version", "new-version"},
			steps: []string{"clone-prompt", "new-version"},
		},
		{
			name:  "value after variant",
			args:  []string{"load-prompt", "--variant", "save-prompt", "save-prompt"},
			steps: []string{"load-prompt", "save-prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := parseSteps(tt.args)
			require.NoError(t, err)

			var names []string
			for _, st := range steps {
				names = append(names, st.name)
			}

			assert.Equal(t, tt.steps, names)
		})
	}
}

func TestPromptTemplateCloneLabelNamedLikeStep(t *testing.T) {
	dir, cfg := project(t)

	_, _, err := run(t, "--config", cfg, "prompt-template",
		"load-prompt", "--api-name", "Greeting",
		"clone-prompt", "--api-suffix", "nv", "--label-suffix", "new-version",
		"save-prompt")
	require.NoError(t, err)

	saved := filepath.Join(dir, "src", "genAiPromptTemplates", "Greeting_nv.genAiPromptTemplate-meta.xml")

	out, _, err := run(t, "metadata", "get", saved, "masterLabel")
	require.NoError(t, err)
	assert.Equal(t, "Greeting new-version\n", out)
}

func TestPromptTemplateSplit(t *testing.T) {
	dir, cfg := project(t)

	out, _, err := run(t, "prompt-template", "--config="+cfg,
		"load-prompt", "--api-name", "Greeting",
		"save-split-prompts")
	require.NoError(t, err)

	for _, name := range []string{"Greeting-v1", "Greeting-v2"} {
		path := filepath.Join(dir, "src", "genAiPromptTemplates", name+".genAiPromptTemplate-meta.xml")
		assert.Contains(t, out, path)
		assert.FileExists(t, path)
	}
}

func TestPromptTemplateWarnings(t *testing.T) {
	src := strings.Replace(greetingXML, "    <activeVersionIdentifier>g=_1</activeVersionIdentifier>\n", "", 1)
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "g.xml"), src)
	dst := filepath.Join(dir, "out.xml")

	_, stderr, err := run(t, "prompt-template",
		"load-prompt", "--source-file", path,
		"filter-active-version",
		"last-n-versions", "--count", "1",
		"save-prompt", "--target-file", dst)
	require.NoError(t, err)

	assert.Contains(t, stderr, "WARN |prompt template has no active version")

	out, _, err := run(t, "metadata", "get", dst, "templateVersions[0].versionIdentifier")
	require.NoError(t, err)
	assert.Equal(t, "g=_2\n", out)
}

func TestPromptTemplateCopy(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "g.xml"), strings.ReplaceAll(greetingXML, "    ", "  "))
	dst := filepath.Join(dir, "copy.xml")

	_, _, err := run(t, "prompt-template", "copy-prompt", "--source-file", path, "--target-file", dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, greetingXML, string(data))
}

func TestPromptTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown step", args: []string{"explode"}, msg: `unknown step "explode"`},
		{name: "not loaded", args: []string{"new-version"}, msg: "no prompt template loaded"},
		{name: "unknown flag", args: []string{"new-version", "--bogus"}, msg: "new-version:"},
		{name: "stray argument", args: []string{"load-prompt", "x.xml"}, msg: "unexpected arguments"},
		{name: "no source", args: []string{"load-prompt"}, msg: "--source-file or --api-name is required"},
		{name: "missing global value", args: []string{"load-prompt", "--log-level"}, msg: "flag needs an argument"},
		{name: "missing step value", args: []string{"last-n-versions", "--count"}, msg: "last-n-versions: flag needs an argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append([]string{"prompt-template"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestPromptTemplateHelp(t *testing.T) {
	out, _, err := run(t, "prompt-template", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "load-prompt")
	assert.Contains(t, out, "--source-file")
	assert.Contains(t, out, "save-split-prompts")
}

func TestSchemaCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "flow.yaml"), flowSchemaYAML)
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "types:\n  - name: X\n    extends: Metadta\n")

	out, _, err := run(t, "schema", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok (2 types)")
	assert.Contains(t, out, "1 files: 0 errors, 0 warnings")

	out, _, err = run(t, "schema", "check", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "error: [X] extends: [UNKNOWN_TYPE]")
	assert.Contains(t, out, "did you mean Metadata?")
	assert.Contains(t, out, "2 files: 1 errors, 0 warnings")
	assert.Contains(t, err.Error(), "1 of 2 schema files have errors")
}

func TestSchemaExport(t *testing.T) {
	out, _, err := run(t, "schema", "export", "GenAiPromptTemplate")
	require.NoError(t, err)

	assert.Contains(t, out, "name: GenAiPromptTemplateVersion")
	assert.Contains(t, out, "tag: genAiPromptTemplate")

	_, _, err = run(t, "schema", "export", "Nope")
	require.Error(t, err)
}

func TestConfiguredSchemaDecodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flow.yaml"), flowSchemaYAML)
	cfg := writeFile(t, filepath.Join(dir, "sfmeta.yaml"), "schemas:\n  - flow.yaml\n")
	path := writeFile(t, filepath.Join(dir, "Main.flow-meta.xml"), `<?xml version="1.0" encoding="UTF-8"?>
<Flow xmlns="http://soap.sforce.com/2006/04/metadata">
    <variables>
        <name>v</name>
    </variables>
    <label>Main</label>
</Flow>
`)

	out, _, err := run(t, "--config", cfg, "metadata", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, "root: Flow (Flow)")
	assert.NotContains(t, out, "warning")

	// without the schema, variables falls back to a generic node
	out, _, err = run(t, "metadata", "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, "root: Flow (Metadata)")
	assert.Contains(t, out, "UNRESOLVED_TYPE")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
