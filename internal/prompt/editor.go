package prompt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"salesforce-metadata-parser/internal/codec"
	"salesforce-metadata-parser/internal/document"
	"salesforce-metadata-parser/metadata"
)

var (
	// ErrNoVersions is returned when a template has no templateVersions.
	ErrNoVersions = errors.New("prompt template has no versions")
	// ErrNoActiveVersion is returned when the active version is unset or
	// does not match any version.
	ErrNoActiveVersion = errors.New("prompt template has no active version")
)

// DefaultProjectDir is the source directory of a Salesforce DX project.
const DefaultProjectDir = "force-app/main/default"

// Roots resolves prompt template documents.
func Roots() codec.RootTable {
	return metadata.Roots()
}

// Editor applies editing operations to prompt templates.
type Editor struct {
	log        logrus.FieldLogger
	projectDir string
	opts       []codec.Option
}

// NewEditor creates an editor resolving default paths below projectDir.
// opts apply to every file it reads and writes; the editor's logger is
// used unless they name another one.
func NewEditor(log logrus.FieldLogger, projectDir string, opts ...codec.Option) *Editor {
	if log == nil {
		log = logrus.StandardLogger()
	}

	if projectDir == "" {
		projectDir = DefaultProjectDir
	}

	return &Editor{
		log:        log,
		projectDir: projectDir,
		opts:       append([]codec.Option{codec.WithLogger(log)}, opts...),
	}
}

// DefaultPath returns the conventional file of a template:
// <projectDir>/genAiPromptTemplates/<apiName>[-<variant>].genAiPromptTemplate-meta.xml.
func (e *Editor) DefaultPath(apiName, variant string) string {
	t := metadata.GenAiPromptTemplate

	return document.PathFor(e.projectDir, t.Directory(), t.Suffix(), apiName, variant)
}

// Load reads a prompt template file.
func (e *Editor) Load(path string) (*metadata.PromptTemplate, error) {
	doc, err := document.Load(path, Roots(), e.opts...)
	if err != nil {
		return nil, err
	}

	if doc.Type() != metadata.GenAiPromptTemplate {
		return nil, fmt.Errorf("%s: root element <%s> is not a prompt template", path, doc.TypeName)
	}

	return metadata.AsPromptTemplate(doc), nil
}

// LoadByName reads the template stored at DefaultPath(apiName, variant).
func (e *Editor) LoadByName(apiName, variant string) (*metadata.PromptTemplate, error) {
	return e.Load(e.DefaultPath(apiName, variant))
}

// Save writes a template to path.
func (e *Editor) Save(p *metadata.PromptTemplate, path string) error {
	return document.Save(p.Document, path, e.opts...)
}

// SaveByName writes a template to the conventional path of its document
// below the project directory.
func (e *Editor) SaveByName(p *metadata.PromptTemplate, apiName, variant string) error {
	_, err := e.saveByName(p, apiName, variant)
	return err
}

func (e *Editor) saveByName(p *metadata.PromptTemplate, apiName, variant string) (string, error) {
	path, err := document.DefaultPath(e.projectDir, p.Document, apiName, variant)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", apiName, err)
	}

	return path, e.Save(p, path)
}

// FilterActiveVersion keeps only the version named by
// activeVersionIdentifier.
func (e *Editor) FilterActiveVersion(p *metadata.PromptTemplate) error {
	active := p.ActiveVersionIdentifier()
	if active == "" {
		return ErrNoActiveVersion
	}

	e.log.WithField("version", active).Debug("searching active version")

	for _, v := range p.Versions() {
		if v.VersionIdentifier() == active {
			e.log.WithField("version", active).Info("selecting active version")
			p.SetVersions([]*metadata.PromptVersion{v})

			return nil
		}
	}

	return fmt.Errorf("%w: %s not found", ErrNoActiveVersion, active)
}

// FilterLastVersion keeps only the last version and makes it the active one.
// A template with a single version is left as is.
func (e *Editor) FilterLastVersion(p *metadata.PromptTemplate) error {
	versions := p.Versions()

	switch len(versions) {
	case 0:
		return ErrNoVersions
	case 1:
		e.log.Info("only one template version found, no action taken")
		return nil
	}

	last := versions[len(versions)-1]
	e.log.WithField("version", last.VersionIdentifier()).Info("selecting last version")

	p.SetVersions([]*metadata.PromptVersion{last})
	p.SetActiveVersionIdentifier(last.VersionIdentifier())

	return nil
}

// FilterLastN keeps the last n versions.
func (e *Editor) FilterLastN(p *metadata.PromptTemplate, n int) error {
	if n < 1 {
		return fmt.Errorf("version count must be positive, got %d", n)
	}

	versions := p.Versions()

	if len(versions) == 0 {
		return ErrNoVersions
	}

	if len(versions) <= n {
		e.log.WithField("count", len(versions)).Info("not more versions than requested, no action taken")
		return nil
	}

	e.log.WithField("count", n).Info("selecting last versions")
	p.SetVersions(versions[len(versions)-n:])

	return nil
}

// NewVersion appends a draft copy of the last version with the next
// version identifier and returns it.
func (e *Editor) NewVersion(p *metadata.PromptTemplate) (*metadata.PromptVersion, error) {
	versions := p.Versions()
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}

	last := versions[len(versions)-1]

	next := last.Clone()
	next.SetStatus(metadata.StatusDraft)

	if id := last.VersionIdentifier(); id != "" {
		next.SetVersionIdentifier(IncrementVersionIdentifier(id))
	}

	e.log.WithField("version", next.VersionIdentifier()).Info("creating new version")
	p.SetVersions(append(versions, next))

	return next, nil
}

// Clone returns a copy of p named "<developerName>_<apiSuffix>" and labeled
// "<masterLabel> <labelSuffix>", holding only the last version. Version
// identifiers are cleared; the platform assigns new ones on deploy.
func (e *Editor) Clone(p *metadata.PromptTemplate, apiSuffix, labelSuffix string) (*metadata.PromptTemplate, error) {
	c := metadata.AsPromptTemplate(p.Document.Clone())

	name := c.DeveloperName() + "_" + apiSuffix
	label := c.MasterLabel() + " " + labelSuffix

	e.log.WithFields(logrus.Fields{"from": c.DeveloperName(), "to": name}).Debug("renaming api name")
	e.log.WithFields(logrus.Fields{"from": c.MasterLabel(), "to": label}).Debug("renaming label")

	c.SetDeveloperName(name)
	c.SetMasterLabel(label)

	if err := e.FilterLastVersion(c); err != nil {
		return nil, err
	}

	c.SetActiveVersionIdentifier("")
	c.Versions()[0].SetVersionIdentifier("")

	return c, nil
}

// SetStatus sets the status of the last version.
func (e *Editor) SetStatus(p *metadata.PromptTemplate, status string) error {
	st, err := metadata.ParseStatus(status)
	if err != nil {
		return err
	}

	versions := p.Versions()
	if len(versions) == 0 {
		return ErrNoVersions
	}

	versions[len(versions)-1].SetStatus(st)

	return nil
}

// Part is one template produced by Split.
type Part struct {
	// Name is "<developerName>-v<n>", n being the version number.
	Name     string
	Template *metadata.PromptTemplate
}

// Split produces one template per version, each holding that version as
// its active one. Versions whose identifier carries no usable number, or
// repeats one already used, are named after the lowest free number.
func (e *Editor) Split(p *metadata.PromptTemplate) ([]Part, error) {
	versions := p.Versions()
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}

	prefix := p.DeveloperName() + "-v"
	names := make([]string, len(versions))
	taken := map[string]struct{}{}

	for i, v := range versions {
		id, ok := ParseVersionIdentifier(v.VersionIdentifier())
		if !ok {
			e.log.WithField("version", v.VersionIdentifier()).Warn("unexpected version identifier format")
			continue
		}

		name := prefix + strconv.Itoa(id.Number)
		if _, dup := taken[name]; dup {
			continue
		}

		taken[name] = struct{}{}
		names[i] = name
	}

	free := newStem(prefix, taken)
	parts := make([]Part, 0, len(versions))

	for i := range versions {
		c := metadata.AsPromptTemplate(p.Document.Clone())
		v := c.Versions()[i]

		c.SetVersions([]*metadata.PromptVersion{v})
		c.SetActiveVersionIdentifier(v.VersionIdentifier())

		if names[i] == "" {
			names[i] = free.Next()
		}

		parts = append(parts, Part{Name: names[i], Template: c})
	}

	return parts, nil
}

// SaveSplit splits p and writes every part to its default path.
func (e *Editor) SaveSplit(p *metadata.PromptTemplate) ([]string, error) {
	parts, err := e.Split(p)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(parts))

	for _, part := range parts {
		path, err := e.saveByName(part.Template, part.Name, "")
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}
