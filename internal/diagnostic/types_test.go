package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning(CodeUnresolvedType, "no type registered", "Flow", "variables[0]", "variable")
	d.AddInfo(CodeBlankText, "blank", "", "")
	assert.True(t, d.IsValid())

	d.AddError(CodeUnknownType, "field type not found", "Flow", "variables")
	d.AddError(CodeTypeCycle, "cycle", "", "")

	assert.True(t, d.HasErrors())
	assert.EqualError(t, d.Error(), "[Flow] variables: [UNKNOWN_TYPE] field type not found; [TYPE_CYCLE] cycle")

	warnings := d.WithCode(CodeUnresolvedType)
	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.Equal(t, "[Flow] variables[0]: [UNRESOLVED_TYPE] no type registered (did you mean variable?)", warnings[0].String())
}

func TestMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning(CodeMixedContent, "m", "", "")
	b.AddError(CodeTypeCycle, "c", "", "")
	b.AddInfo(CodeBlankText, "i", "", "")

	a.Merge(b)

	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "Severity(7)", Severity(7).String())
}

func TestDiagnosticStringBare(t *testing.T) {
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}
