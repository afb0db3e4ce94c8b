package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keyword sets the classifier and boundary guard match
// against. Extending the vocabulary is a config change, not a code change.
type Vocabulary struct {
	EquipmentTerms    []string `yaml:"equipment_terms"`
	IssueTerms        []string `yaml:"issue_terms"`
	EmergencyTerms    []string `yaml:"emergency_terms"`
	ProcedureTerms    []string `yaml:"procedure_terms"`
	Locations         []string `yaml:"locations"`
	ProhibitedPhrases []string `yaml:"prohibited_phrases"`
}

// DefaultVocabulary returns the built-in keyword sets used when no vocabulary
// file is configured.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		EquipmentTerms:    []string{"trackman", "projector", "simulator", "screen"},
		IssueTerms:        []string{"broken", "error", "not working", "no image", "black screen", "not reading"},
		EmergencyTerms:    []string{"emergency", "urgent", "power outage", "fire", "flood", "safety"},
		ProcedureTerms:    []string{"how to", "procedure", "close", "open", "checklist"},
		Locations:         []string{"river oaks", "dartmouth", "downtown", "memorial", "woodlands"},
		ProhibitedPhrases: []string{"off-white", "corporate tone", "dynamic pricing"},
	}
}

// LoadVocabulary reads a vocabulary file, falling back to defaults for any
// empty section.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
	}

	defaults := DefaultVocabulary()
	if len(vocab.EquipmentTerms) == 0 {
		vocab.EquipmentTerms = defaults.EquipmentTerms
	}
	if len(vocab.IssueTerms) == 0 {
		vocab.IssueTerms = defaults.IssueTerms
	}
	if len(vocab.EmergencyTerms) == 0 {
		vocab.EmergencyTerms = defaults.EmergencyTerms
	}
	if len(vocab.ProcedureTerms) == 0 {
		vocab.ProcedureTerms = defaults.ProcedureTerms
	}
	if len(vocab.Locations) == 0 {
		vocab.Locations = defaults.Locations
	}
	if len(vocab.ProhibitedPhrases) == 0 {
		vocab.ProhibitedPhrases = defaults.ProhibitedPhrases
	}

	return &vocab, nil
}
