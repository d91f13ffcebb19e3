package prompt

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesforce-metadata-parser/metadata"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewEditor(log, t.TempDir())
}

// newTemplate builds a template with one published version per identifier.
func newTemplate(active string, ids ...string) *metadata.PromptTemplate {
	p := metadata.AsPromptTemplate(metadata.NewDocument(metadata.GenAiPromptTemplate))
	p.SetDeveloperName("Greeting")
	p.SetMasterLabel("Greeting")
	p.SetActiveVersionIdentifier(active)

	versions := make([]*metadata.PromptVersion, 0, len(ids))

	for _, id := range ids {
		v := metadata.NewPromptVersion()
		v.SetText("content", "content of "+id)
		v.SetStatus(metadata.StatusPublished)
		v.SetVersionIdentifier(id)
		versions = append(versions, v)
	}

	p.SetVersions(versions)

	return p
}

func identifiers(p *metadata.PromptTemplate) []string {
	var out []string
	for _, v := range p.Versions() {
		out = append(out, v.VersionIdentifier())
	}

	return out
}

func TestDefaultPath(t *testing.T) {
	e := NewEditor(nil, "")

	assert.Equal(t,
		filepath.Join(DefaultProjectDir, "genAiPromptTemplates", "Greeting.genAiPromptTemplate-meta.xml"),
		e.DefaultPath("Greeting", ""))
	assert.Equal(t,
		filepath.Join(DefaultProjectDir, "genAiPromptTemplates", "Greeting-copy.genAiPromptTemplate-meta.xml"),
		e.DefaultPath("Greeting", "copy"))
}

func TestFilterActiveVersion(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_2", "g=_1", "g=_2", "g=_3")
	require.NoError(t, e.FilterActiveVersion(p))
	assert.Equal(t, []string{"g=_2"}, identifiers(p))

	p = newTemplate("", "g=_1", "g=_2")
	require.ErrorIs(t, e.FilterActiveVersion(p), ErrNoActiveVersion)
	assert.Len(t, p.Versions(), 2)

	p = newTemplate("g=_9", "g=_1", "g=_2")
	err := e.FilterActiveVersion(p)
	require.ErrorIs(t, err, ErrNoActiveVersion)
	assert.Contains(t, err.Error(), "g=_9")
	assert.Len(t, p.Versions(), 2)
}

func TestFilterLastVersion(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_1", "g=_1", "g=_2", "g=_3")
	require.NoError(t, e.FilterLastVersion(p))
	assert.Equal(t, []string{"g=_3"}, identifiers(p))
	assert.Equal(t, "g=_3", p.ActiveVersionIdentifier())

	// single version: untouched, active identifier included
	p = newTemplate("g=_1", "g=_5")
	require.NoError(t, e.FilterLastVersion(p))
	assert.Equal(t, []string{"g=_5"}, identifiers(p))
	assert.Equal(t, "g=_1", p.ActiveVersionIdentifier())

	require.ErrorIs(t, e.FilterLastVersion(newTemplate("")), ErrNoVersions)
}

func TestFilterLastN(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_1", "g=_1", "g=_2", "g=_3", "g=_4")
	require.NoError(t, e.FilterLastN(p, 2))
	assert.Equal(t, []string{"g=_3", "g=_4"}, identifiers(p))

	p = newTemplate("", "g=_1", "g=_2")
	require.NoError(t, e.FilterLastN(p, 5))
	assert.Len(t, p.Versions(), 2)

	require.Error(t, e.FilterLastN(p, 0))
	require.ErrorIs(t, e.FilterLastN(newTemplate(""), 1), ErrNoVersions)
}

func TestNewVersion(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_2", "g=_1", "g=_2")
	v, err := e.NewVersion(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"g=_1", "g=_2", "g=_3"}, identifiers(p))
	assert.Equal(t, "g=_3", v.VersionIdentifier())
	assert.Equal(t, "content of g=_2", v.Content())

	st, err := v.Status()
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusDraft, st)

	// the source version is untouched
	st, err = p.Versions()[1].Status()
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusPublished, st)

	// the active version does not move
	assert.Equal(t, "g=_2", p.ActiveVersionIdentifier())

	_, err = e.NewVersion(newTemplate(""))
	require.ErrorIs(t, err, ErrNoVersions)
}

func TestNewVersionWithoutIdentifier(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("", "")
	v, err := e.NewVersion(p)
	require.NoError(t, err)

	assert.Equal(t, "", v.VersionIdentifier())
	assert.Len(t, p.Versions(), 2)
}

func TestClone(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_1", "g=_1", "g=_2")
	c, err := e.Clone(p, "copy", "(Copy)")
	require.NoError(t, err)

	assert.Equal(t, "Greeting_copy", c.DeveloperName())
	assert.Equal(t, "Greeting (Copy)", c.MasterLabel())
	assert.Equal(t, "", c.ActiveVersionIdentifier())

	versions := c.Versions()
	require.Len(t, versions, 1)
	assert.Equal(t, "", versions[0].VersionIdentifier())
	assert.Equal(t, "content of g=_2", versions[0].Content())

	// the original is untouched
	assert.Equal(t, "Greeting", p.DeveloperName())
	assert.Equal(t, []string{"g=_1", "g=_2"}, identifiers(p))

	_, err = e.Clone(newTemplate(""), "copy", "(Copy)")
	require.ErrorIs(t, err, ErrNoVersions)
}

func TestSetStatus(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("", "g=_1", "g=_2")
	require.NoError(t, e.SetStatus(p, "Draft"))

	st, err := p.Versions()[1].Status()
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusDraft, st)

	st, err = p.Versions()[0].Status()
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusPublished, st)

	require.ErrorIs(t, e.SetStatus(p, "Archived"), metadata.ErrInvalidEnum)
	require.ErrorIs(t, e.SetStatus(newTemplate(""), "Draft"), ErrNoVersions)
}

func TestSplit(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_1", "g=_1", "g=_2")
	parts, err := e.Split(p)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	for i, part := range parts {
		id := []string{"g=_1", "g=_2"}[i]

		assert.Equal(t, []string{"Greeting-v1", "Greeting-v2"}[i], part.Name)
		assert.Equal(t, []string{id}, identifiers(part.Template))
		assert.Equal(t, id, part.Template.ActiveVersionIdentifier())
	}

	assert.Len(t, p.Versions(), 2)

	_, err = e.Split(newTemplate(""))
	require.ErrorIs(t, err, ErrNoVersions)
}

func TestSaveAndLoadByName(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_1", "g=_1")
	require.NoError(t, os.MkdirAll(filepath.Dir(e.DefaultPath("Greeting", "")), 0755))
	require.NoError(t, e.SaveByName(p, "Greeting", ""))

	back, err := e.LoadByName("Greeting", "")
	require.NoError(t, err)

	assert.Equal(t, "Greeting", back.DeveloperName())
	assert.Equal(t, []string{"g=_1"}, identifiers(back))
	assert.Equal(t, "content of g=_1", back.Versions()[0].Content())
}

func TestLoadRejectsOtherTypes(t *testing.T) {
	e := newTestEditor(t)

	path := filepath.Join(t.TempDir(), "labels.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<CustomLabels><fullName>x</fullName></CustomLabels>`), 0644))

	_, err := e.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a prompt template")
}

func TestSaveSplit(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("g=_1", "g=_1", "g=_2")
	require.NoError(t, os.MkdirAll(filepath.Dir(e.DefaultPath("x", "")), 0755))

	paths, err := e.SaveSplit(p)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, e.DefaultPath("Greeting-v2", ""), paths[1])

	back, err := e.Load(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "g=_2", back.ActiveVersionIdentifier())
}

func TestSplitIrregularIdentifiers(t *testing.T) {
	e := newTestEditor(t)

	p := newTemplate("", "draft", "g=_2", "g=_2", "other")
	parts, err := e.Split(p)
	require.NoError(t, err)

	var names []string
	for _, part := range parts {
		names = append(names, part.Name)
	}

	assert.Equal(t, []string{"Greeting-v1", "Greeting-v2", "Greeting-v3", "Greeting-v4"}, names)
	assert.Equal(t, "draft", parts[0].Template.ActiveVersionIdentifier())
}
