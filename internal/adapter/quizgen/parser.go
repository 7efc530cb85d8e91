package quizgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"quiz-seeder/internal/domain"
)

// questionArraySchema checks shape only. Fields are optional, may be any
// scalar, and the answer key is free text.
const questionArraySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "question":      {"$ref": "#/$defs/scalar"},
      "optionA":       {"$ref": "#/$defs/scalar"},
      "optionB":       {"$ref": "#/$defs/scalar"},
      "optionC":       {"$ref": "#/$defs/scalar"},
      "optionD":       {"$ref": "#/$defs/scalar"},
      "correctAnswer": {"$ref": "#/$defs/scalar"},
      "explanation":   {"$ref": "#/$defs/scalar"}
    }
  },
  "$defs": {
    "scalar": {"type": ["string", "number", "boolean", "null"]}
  }
}`

const questionArraySchemaURL = "schema://question-array.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func questionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionArraySchema))
		if err != nil {
			compileErr = fmt.Errorf("parse question schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionArraySchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add question schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(questionArraySchemaURL)
	})
	return compiledSchema, compileErr
}

var codeFence = regexp.MustCompile("```(?:json)?\\n?")

// StripCodeFences removes markdown code fences anywhere in the reply.
func StripCodeFences(raw string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
}

// ParseQuestions turns a model reply into records.
// Fenced and unfenced replies parse identically.
func ParseQuestions(raw string) ([]domain.QuestionRecord, error) {
	text := StripCodeFences(raw)
	if text == "" {
		return nil, domain.NewMalformedResponseError("empty model reply", nil)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return nil, domain.NewMalformedResponseError("model reply is not valid JSON", err)
	}

	schema, err := questionSchema()
	if err != nil {
		return nil, domain.NewInternalError("compile question schema", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, domain.NewMalformedResponseError("model reply is not an array of question objects", err)
	}

	var wire []wireQuestion
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, domain.NewMalformedResponseError("decode question records", err)
	}
	records := make([]domain.QuestionRecord, len(wire))
	for i, w := range wire {
		records[i] = w.toRecord()
	}
	return records, nil
}

// scalarText decodes any JSON scalar as a string: numbers and booleans keep their
// literal form and null becomes "".
type scalarText string

func (t *scalarText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = scalarText(s)
	default:
		*t = scalarText(data)
	}
	return nil
}

type wireQuestion struct {
	Question      scalarText `json:"question"`
	OptionA       scalarText `json:"optionA"`
	OptionB       scalarText `json:"optionB"`
	OptionC       scalarText `json:"optionC"`
	OptionD       scalarText `json:"optionD"`
	CorrectAnswer scalarText `json:"correctAnswer"`
	Explanation   scalarText `json:"explanation"`
}

func (w wireQuestion) toRecord() domain.QuestionRecord {
	return domain.QuestionRecord{
		Question:      string(w.Question),
		OptionA:       string(w.OptionA),
		OptionB:       string(w.OptionB),
		OptionC:       string(w.OptionC),
		OptionD:       string(w.OptionD),
		CorrectAnswer: string(w.CorrectAnswer),
		Explanation:   string(w.Explanation),
	}
}
