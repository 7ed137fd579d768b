package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/noema/core"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "value": {
            "type": "string"
          },
          "type": {
            "type": "string"
          },
          "confidence": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["value", "type", "confidence"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Extract the entities mentioned in the given personal note and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Value must be the entity text exactly as it appears in the note, preserving capitalization.
- Type field must match exactly one of the listed values: %s.
- Confidence is a number from 0 (uncertain) to 1 (certain). Rate how sure you are that this span is an entity of that type.
- Include only entities that are explicitly mentioned in the note. Do not hallucinate.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.



Example (formal):
Input: "Had coffee with Sarah at Blue Bottle this morning."
Output:
{
  "entities": [
    {"value":"Sarah","type":"person","confidence":0.95},
    {"value":"Blue Bottle","type":"location","confidence":0.85},
    {"value":"this morning","type":"date","confidence":0.8},
    {"value":"coffee","type":"activity","confidence":0.7}
  ]
}

---  // informal / chat-style examples

Example (missing capitalization, no punctuation):
Input: "went hiking with mike felt great"
Output:
{
  "entities": [
    {"value":"mike","type":"person","confidence":0.9},
    {"value":"hiking","type":"activity","confidence":0.9},
    {"value":"great","type":"emotion","confidence":0.6}
  ]
}

Example (organization and event):
Input: "interview at Acme Corp before the conference"
Output:
{
  "entities": [
    {"value":"Acme Corp","type":"organization","confidence":0.95},
    {"value":"interview","type":"event","confidence":0.8},
    {"value":"conference","type":"event","confidence":0.75}
  ]
}

Example (nothing to extract):
Input: "not much happened"
Output:
{
  "entities": []
}`

// buildSystemPrompt creates the system prompt with entity types embedded.
func buildSystemPrompt() string {
	names := make([]string, len(core.EntityTypes))
	for i, t := range core.EntityTypes {
		names[i] = string(t)
	}
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(names, ", "))
}
