package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes common hand-editing mistakes in JSON documents:
// missing quotes around keys, single quotes, trailing commas, comments.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
// Hjson supports comments, unquoted keys and strings, optional commas and multiline strings.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("hjson parse: %w", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(jsonBytes), nil
}

// DecodeHJSON decodes an Hjson document into v through its standard JSON form.
// Hjson input must not go through json-repair: quoteless multi-line arrays come
// back from the repairer as one string without an error.
func DecodeHJSON(input string, v interface{}) error {
	converted, err := ParseHJSON(input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(converted), v); err != nil {
		return fmt.Errorf("decode hjson: %w", err)
	}
	return nil
}

// DecodeLenient decodes a configuration document into v, trying in turn:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson (most lenient)
// The returned string is the strict JSON that was finally decoded.
func DecodeLenient(input string, v interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), v); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return repaired, nil
		}
	}

	hjsonResult, err := ParseHJSON(input)
	if err != nil {
		return "", fmt.Errorf("decode lenient: all parsing strategies failed: %w", err)
	}
	if err := json.Unmarshal([]byte(hjsonResult), v); err != nil {
		return "", fmt.Errorf("decode lenient: %w", err)
	}
	return hjsonResult, nil
}
