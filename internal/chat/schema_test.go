package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantPrompt string
		// wantField "*" accepts any field name
		wantField  string
		wantMsg    string
	}{
		{name: "ok", body: `{"prompt":"Pourquoi le ciel est bleu ?"}`, wantPrompt: "Pourquoi le ciel est bleu ?"},
		{name: "max length", body: `{"prompt":"` + strings.Repeat("é", MaxPromptLength) + `"}`, wantPrompt: strings.Repeat("é", MaxPromptLength)},
		{name: "empty", body: `{"prompt":""}`, wantField: "prompt", wantMsg: "Vous devez dire quelque chose, le silence est vulgaire."},
		{name: "too long", body: `{"prompt":"` + strings.Repeat("a", MaxPromptLength+1) + `"}`, wantField: "prompt", wantMsg: "Trop long ! Solange refuse de lire plus de 1000 caractères."},
		{name: "missing", body: `{}`, wantField: "*"},
		{name: "wrong type", body: `{"prompt":42}`, wantField: "prompt"},
		{name: "not an object", body: `[]`, wantField: "*"},
		{name: "not json", body: `prompt=hi`, wantField: "(root)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, violations := v.Validate([]byte(tt.body))
			if tt.wantField == "" {
				assert.Nil(t, violations)
				assert.Equal(t, tt.wantPrompt, prompt)
				return
			}
			require.NotEmpty(t, violations)
			assert.Empty(t, prompt)
			if tt.wantField != "*" {
				assert.Equal(t, tt.wantField, violations[0].Field)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, violations[0].Message)
			}
		})
	}
}
