package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wchwawa/journal-app-mvp/internal/model"
)

// Output contract caps.
const (
	maxListItems   = 3
	maxKeywords    = 8
	maxTopEmotions = 5
	maxMoodOverall = 32
	maxShortText   = 160
)

// ReflectionOutput is the validated shape of one model completion.
type ReflectionOutput struct {
	Achievements []string               `json:"achievements"`
	Commitments  []string               `json:"commitments"`
	Mood         ReflectionMood         `json:"mood"`
	Flashback    *string                `json:"flashback"`
	Stats        *model.ReflectionStats `json:"stats"`
}

type ReflectionMood struct {
	Overall *string `json:"overall"`
	Reason  *string `json:"reason"`
}

// ParseReflectionOutput parses raw model text into a validated
// ReflectionOutput. Unparsable JSON maps to ErrGenerationFailed; a parsed
// object that still violates the contract maps to ErrSchemaInvalid.
// Achievements/commitments are defensively truncated to 3 entries and
// stats.keywords to 8 before validation, so an over-long list from the model
// is not fatal.
func ParseReflectionOutput(raw string) (*ReflectionOutput, error) {
	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("%w: parse model output: %v", ErrGenerationFailed, err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var out ReflectionOutput
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	truncate(&out)
	if err := validate(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &out, nil
}

func truncate(out *ReflectionOutput) {
	if len(out.Achievements) > maxListItems {
		out.Achievements = out.Achievements[:maxListItems]
	}
	if len(out.Commitments) > maxListItems {
		out.Commitments = out.Commitments[:maxListItems]
	}
	if out.Stats != nil && len(out.Stats.Keywords) > maxKeywords {
		out.Stats.Keywords = out.Stats.Keywords[:maxKeywords]
	}
}

func validate(out *ReflectionOutput) error {
	var err error
	if out.Achievements, err = cleanList("achievements", out.Achievements); err != nil {
		return err
	}
	if out.Commitments, err = cleanList("commitments", out.Commitments); err != nil {
		return err
	}
	if err := cleanText("mood.overall", out.Mood.Overall, maxMoodOverall); err != nil {
		return err
	}
	if err := cleanText("mood.reason", out.Mood.Reason, maxShortText); err != nil {
		return err
	}
	if err := cleanText("flashback", out.Flashback, maxShortText); err != nil {
		return err
	}

	if out.Stats != nil {
		if out.Stats.EntryCount != nil && *out.Stats.EntryCount < 0 {
			return fmt.Errorf("stats.entryCount must be non-negative")
		}
		if len(out.Stats.TopEmotions) > maxTopEmotions {
			return fmt.Errorf("stats.topEmotions exceeds %d entries", maxTopEmotions)
		}
		if out.Stats.TopEmotions, err = cleanList("stats.topEmotions", out.Stats.TopEmotions); err != nil {
			return err
		}
		if out.Stats.Keywords, err = cleanList("stats.keywords", out.Stats.Keywords); err != nil {
			return err
		}
	}
	return nil
}

// cleanList trims items and rejects blank entries. Returns the trimmed list;
// a nil input becomes an empty list.
func cleanList(field string, items []string) ([]string, error) {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			return nil, fmt.Errorf("%s contains a blank entry", field)
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned, nil
}

func cleanText(field string, value *string, maxLen int) error {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fmt.Errorf("%s is blank", field)
	}
	if len([]rune(trimmed)) > maxLen {
		return fmt.Errorf("%s exceeds %d characters", field, maxLen)
	}
	*value = trimmed
	return nil
}
