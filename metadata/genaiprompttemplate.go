package metadata

import (
	"fmt"

	"salesforce-metadata-parser/node"
)

// Status is the lifecycle state of a prompt template version.
type Status string

const (
	StatusPublished Status = "Published"
	StatusDraft     Status = "Draft"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPublished, StatusDraft:
		return true
	default:
		return false
	}
}

// ParseStatus parses the wire text of a status.
func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.IsValid() {
		return st, nil
	}

	return "", fmt.Errorf("%w %q for status", ErrInvalidEnum, s)
}

// TemplateType is the kind of a prompt template.
type TemplateType string

const (
	TemplateFieldCompletion TemplateType = "einstein_gpt__fieldCompletion"
	TemplateSalesEmail      TemplateType = "einstein_gpt__salesEmail"
	TemplateRecordSummary   TemplateType = "einstein_gpt__recordSummary"
	TemplateFlex            TemplateType = "einstein_gpt__flex"
	TemplateCaseEmailDraft  TemplateType = "einstein_gpt__caseEmailDraft"
)

// Visibility controls where a prompt template can be used.
type Visibility string

const (
	VisibilityAPI    Visibility = "API"
	VisibilityGlobal Visibility = "Global"
)

var (
	GenAiPromptTemplateDataProviderParam = node.Define("GenAiPromptTemplateDataProviderParam").
						Text("definition").
						Text("isRequired").
						Text("parameterName").
						Text("valueExpression").
						Build()

	GenAiPromptTemplateDataProvider = node.Define("GenAiPromptTemplateDataProvider").
					Text("definition").
					Nested("parameters", GenAiPromptTemplateDataProviderParam).
					Text("referenceName").
					Build()

	GenAiPromptTemplateInput = node.Define("GenAiPromptTemplateInput").
					Text("apiName").
					Text("definition").
					Text("description").
					Text("masterLabel").
					Text("referenceName").
					Text("required").
					Build()

	GenAiGenerationTemplateConfig = node.Define("GenAiGenerationTemplateConfig").
					Text("generationConfigDeveloperName").
					Build()

	GenAiPromptTemplateVersion = node.Define("GenAiPromptTemplateVersion").
					Text("content").
					Text("description").
					Nested("generationTemplateConfigs", GenAiGenerationTemplateConfig).
					Nested("inputs", GenAiPromptTemplateInput).
					Text("primaryModel").
					Enum("status", string(StatusPublished), string(StatusDraft)).
					Nested("templateDataProviders", GenAiPromptTemplateDataProvider).
					Text("versionIdentifier").
					Build()

	// GenAiPromptTemplate is an Einstein prompt template.
	GenAiPromptTemplate = node.Define("GenAiPromptTemplate").
				Extends(Metadata).
				Root("genAiPromptTemplate", "genAiPromptTemplates", "genAiPromptTemplate").
				Text("activeVersionIdentifier").
				Text("description").
				Text("developerName").
				Text("masterLabel").
				Text("overrideSource").
				Text("relatedEntity").
				Text("relatedField").
				Nested("templateVersions", GenAiPromptTemplateVersion).
				Enum("type",
			string(TemplateFieldCompletion),
			string(TemplateSalesEmail),
			string(TemplateRecordSummary),
			string(TemplateFlex),
			string(TemplateCaseEmailDraft)).
		Enum("visibility", string(VisibilityAPI), string(VisibilityGlobal)).
		Build()
)

// PromptTemplate reads and writes a GenAiPromptTemplate document by field.
type PromptTemplate struct {
	*node.Document
}

// AsPromptTemplate wraps a decoded document.
func AsPromptTemplate(doc *node.Document) *PromptTemplate {
	return &PromptTemplate{Document: doc}
}

// DeveloperName is the API name of the template.
func (p *PromptTemplate) DeveloperName() string { return p.TextOr("developerName", "") }

// SetDeveloperName sets the API name of the template.
func (p *PromptTemplate) SetDeveloperName(s string) { setOrClear(p.Node, "developerName", s) }

// MasterLabel is the display label of the template.
func (p *PromptTemplate) MasterLabel() string { return p.TextOr("masterLabel", "") }

// SetMasterLabel sets the display label of the template.
func (p *PromptTemplate) SetMasterLabel(s string) { setOrClear(p.Node, "masterLabel", s) }

// ActiveVersionIdentifier identifies the version in use.
func (p *PromptTemplate) ActiveVersionIdentifier() string {
	return p.TextOr("activeVersionIdentifier", "")
}

// SetActiveVersionIdentifier sets the version in use; "" clears it.
func (p *PromptTemplate) SetActiveVersionIdentifier(s string) {
	setOrClear(p.Node, "activeVersionIdentifier", s)
}

// TemplateType returns the template kind, validated against the declared
// values.
func (p *PromptTemplate) TemplateType() (TemplateType, error) {
	s, _, err := EnumText(p.Node, "type")
	return TemplateType(s), err
}

// Visibility returns the template visibility, validated against the
// declared values.
func (p *PromptTemplate) Visibility() (Visibility, error) {
	s, _, err := EnumText(p.Node, "visibility")
	return Visibility(s), err
}

// Versions returns the template versions in document order.
func (p *PromptTemplate) Versions() []*PromptVersion {
	nodes := p.Nodes("templateVersions")

	out := make([]*PromptVersion, len(nodes))
	for i, n := range nodes {
		out[i] = &PromptVersion{Node: n}
	}

	return out
}

// SetVersions replaces the template versions.
func (p *PromptTemplate) SetVersions(versions []*PromptVersion) {
	if len(versions) == 0 {
		p.Delete("templateVersions")
		return
	}

	l := make(node.List, len(versions))
	for i, v := range versions {
		l[i] = v.Node
	}

	p.Set("templateVersions", l)
}

// PromptVersion reads and writes one GenAiPromptTemplateVersion.
type PromptVersion struct {
	*node.Node
}

// NewPromptVersion creates an empty version node.
func NewPromptVersion() *PromptVersion {
	return &PromptVersion{Node: GenAiPromptTemplateVersion.New()}
}

// VersionIdentifier identifies the version, e.g. "v1=_3".
func (v *PromptVersion) VersionIdentifier() string { return v.TextOr("versionIdentifier", "") }

// SetVersionIdentifier sets the version identifier; "" clears it.
func (v *PromptVersion) SetVersionIdentifier(s string) { setOrClear(v.Node, "versionIdentifier", s) }

// Status returns the version status. An absent status is returned as "".
func (v *PromptVersion) Status() (Status, error) {
	s, ok := v.Text("status")
	if !ok {
		return "", nil
	}

	return ParseStatus(s)
}

// SetStatus sets the version status.
func (v *PromptVersion) SetStatus(s Status) { setOrClear(v.Node, "status", string(s)) }

// Content is the prompt text of the version.
func (v *PromptVersion) Content() string { return v.TextOr("content", "") }

// Clone returns a deep copy of the version.
func (v *PromptVersion) Clone() *PromptVersion {
	return &PromptVersion{Node: v.Node.Clone()}
}

func setOrClear(n *node.Node, field, s string) {
	if s == "" {
		n.Delete(field)
		return
	}

	n.SetText(field, s)
}
