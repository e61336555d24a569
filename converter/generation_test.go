package converter

import (
	"testing"

	"github.com/erraggy/poetry2uv/converrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectGeneration(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Generation
	}{
		{
			name: "legacy",
			src:  "[tool.poetry]\nname = \"demo\"\n",
			want: GenerationLegacy,
		},
		{
			name: "project",
			src:  "[project]\nname = \"demo\"\n\n[tool.poetry]\npackage-mode = false\n",
			want: GenerationProject,
		},
		{
			name: "project name wins",
			src:  "[project]\nname = \"new\"\n\n[tool.poetry]\nname = \"old\"\n",
			want: GenerationProject,
		},
		{
			name: "empty project name falls back",
			src:  "[project]\nname = \"\"\n\n[tool.poetry]\nname = \"old\"\n",
			want: GenerationLegacy,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectGeneration(parseTable(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectGenerationErrors(t *testing.T) {
	_, err := DetectGeneration(parseTable(t, "[project]\nname = \"demo\"\n"))
	require.Error(t, err)
	var convErr *converrors.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "tool.poetry", convErr.Path)
	assert.ErrorIs(t, err, converrors.ErrNotPoetryManifest)
	assert.Contains(t, err.Error(), "are you certain this is a poetry project?")

	_, err = DetectGeneration(parseTable(t, "[tool.poetry]\nversion = \"1.0\"\n"))
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "project.name", convErr.Path)
	assert.ErrorIs(t, err, converrors.ErrMissingName)
}

func TestGenerationString(t *testing.T) {
	assert.Equal(t, "unknown", GenerationUnknown.String())
	assert.Equal(t, "poetry-legacy", GenerationLegacy.String())
	assert.Equal(t, "poetry-project", GenerationProject.String())
	assert.Equal(t, "unknown", Generation(42).String())
}

func TestGenerationIdentityTable(t *testing.T) {
	assert.Equal(t, []string{"tool", "poetry"}, GenerationLegacy.IdentityTable())
	assert.Equal(t, []string{"project"}, GenerationProject.IdentityTable())
	assert.Nil(t, GenerationUnknown.IdentityTable())
}
