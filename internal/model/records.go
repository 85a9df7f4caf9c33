// Package model defines the data structures for the explorer's ledger
// records, action lifecycle, tasks, and configuration.
package model

import "fmt"

// Confidence is the confidence level attached to a conjecture.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ParseConfidence maps free-form confidence strings (including the legacy
// CJK variants that appear in older snapshots) onto a Confidence level.
// Unknown values default to Medium.
func ParseConfidence(s string) Confidence {
	switch s {
	case "High", "high", "高":
		return ConfidenceHigh
	case "Low", "low", "低":
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// MathObject is an instance: a "noun" in the mathematical world, possibly
// defined in terms of existing objects and concepts.
type MathObject struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
	Comment    string `yaml:"comment"`
}

// MathConcept is a type or template: a description of properties,
// categories, relationships, or structure of objects.
type MathConcept struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
	Comment    string `yaml:"comment"`
}

// Direction is a clear direction for exploring conjectures, not necessarily
// a rigorous proposition.
type Direction struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Comment     string `yaml:"comment"`
	Solved      bool   `yaml:"solved"`
}

// Conjecture is a rigorous mathematical proposition awaiting proof.
type Conjecture struct {
	ID         string     `yaml:"id"`
	Statement  string     `yaml:"statement"`
	Confidence Confidence `yaml:"confidence"`
	Comment    string     `yaml:"comment"`
	Solved     bool       `yaml:"solved"`
}

// Lemma is a proven proposition, or a condition assumed by the original
// input text (proof recorded as "Conditional assumption").
type Lemma struct {
	ID        string `yaml:"id"`
	Statement string `yaml:"statement"`
	Proof     string `yaml:"proof"`
}

func (o MathObject) DisplayString() string {
	return fmt.Sprintf("[Mathematical Object %s]\n  Name: %s\n  Type & Definition: %s\n  Comment: %s",
		o.ID, o.Name, o.Definition, o.Comment)
}

func (c MathConcept) DisplayString() string {
	return fmt.Sprintf("[Mathematical Concept %s]\n  Name: %s\n  Definition: %s\n  Comment: %s",
		c.ID, c.Name, c.Definition, c.Comment)
}

func (d Direction) DisplayString() string {
	tag := ""
	if d.Solved {
		tag = " [COMPLETELY SOLVED]"
	}
	return fmt.Sprintf("[Exploration Direction %s]%s\n  Description: %s\n  Comment: %s",
		d.ID, tag, d.Description, d.Comment)
}

func (c Conjecture) DisplayString() string {
	tag := ""
	if c.Solved {
		tag = " [COMPLETELY SOLVED]"
	}
	return fmt.Sprintf("[Mathematical Conjecture %s]%s\n  Statement: %s\n  Confidence: %s\n  Comment: %s",
		c.ID, tag, c.Statement, c.Confidence, c.Comment)
}

func (l Lemma) DisplayString() string {
	return fmt.Sprintf("[Conclusion %s]\n  Statement: %s\n  Proof: %s",
		l.ID, l.Statement, l.Proof)
}
