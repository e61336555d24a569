package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateConstraint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"wildcard", "*", "", true},
		{"caret", "^3.6", ">=3.6", true},
		{"caret patch", "^1.2.3", ">=1.2.3", true},
		{"tilde", "~1.2", ">=1.2", true},
		{"tilde wildcard", "~1.2.*", ">=1.2", true},
		{"tilde wildcard major", "~3.*", ">=3", true},
		{"lower bound", ">=1.0", ">=1.0", true},
		{"range", ">=1.0,<2.0", ">=1.0,<2.0", true},
		{"range with space", ">=1.0, <2.0", ">=1.0,<2.0", true},
		{"operator space", ">= 1.0", ">=1.0", true},
		{"exact", "==2.0.1", "==2.0.1", true},
		{"exclusion", "!=1.5", "!=1.5", true},
		{"prefix match", "==1.*", "==1.*", true},
		{"three clauses", ">=1.0,!=1.3,<2.0", ">=1.0,!=1.3,<2.0", true},
		{"bare version", "1.2.3", "", false},
		{"word", "latest", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TranslateConstraint(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTranslateConstraintCaretAndTildeFamilies(t *testing.T) {
	for _, v := range []string{"0", "1.0", "2.31.0", "3.12", "10.4.1"} {
		for _, op := range []string{"^", "~"} {
			got, ok := TranslateConstraint(op + v)
			assert.True(t, ok, op+v)
			assert.Equal(t, ">="+v, got, op+v)
		}
		got, ok := TranslateConstraint("~" + v + ".*")
		assert.True(t, ok)
		assert.Equal(t, ">="+v, got)
	}
}

func TestTranslateConstraintMultiClauseIsStable(t *testing.T) {
	inputs := []string{
		">=1.0,<2.0",
		">=1.0, <2.0",
		">1, <=3.4.5",
		"==1.2.*",
		">=0.9,!=0.9.3,<1",
	}
	for _, in := range inputs {
		once, ok := TranslateConstraint(in)
		assert.True(t, ok, in)
		twice, ok := TranslateConstraint(once)
		assert.True(t, ok, once)
		assert.Equal(t, once, twice, "translation of %q should be a fixed point", in)
	}
}
