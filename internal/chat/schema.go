package chat

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const MaxPromptLength = 1000

const requestSchema = `{
  "type": "object",
  "required": ["prompt"],
  "properties": {
    "prompt": {"type": "string", "minLength": 1, "maxLength": 1000}
  }
}`

// Violation is one reason a request was refused.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator checks chat requests against the request schema.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile chat schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate returns the prompt of a valid body, or the violations found.
func (v *Validator) Validate(body []byte) (string, []Violation) {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "", []Violation{{Field: "(root)", Message: "Le corps de la requête n'est pas du JSON."}}
	}
	if !res.Valid() {
		out := make([]Violation, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			out = append(out, Violation{Field: e.Field(), Message: message(e)})
		}
		return "", out
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return "", []Violation{{Field: "(root)", Message: "Le corps de la requête n'est pas du JSON."}}
	}
	return req.Prompt, nil
}

func message(e gojsonschema.ResultError) string {
	switch e.Type() {
	case "string_gte":
		return "Vous devez dire quelque chose, le silence est vulgaire."
	case "string_lte":
		return fmt.Sprintf("Trop long ! Solange refuse de lire plus de %d caractères.", MaxPromptLength)
	default:
		return e.Description()
	}
}
