// Package ledger implements the shared knowledge base: five
// insertion-ordered collections of typed records with per-type monotonic
// id counters and a global change-version counter.
//
// The ledger has no concurrency control of its own. Every writer must hold
// the orchestrator's merge lock; readers run only between discrete
// mutation calls (round boundaries, checkpoints).
package ledger

import (
	"fmt"
	"strings"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

// Ledger holds all typed records plus the counters that make ids and
// versions monotonic.
type Ledger struct {
	Objects     []model.MathObject
	Concepts    []model.MathConcept
	Directions  []model.Direction
	Conjectures []model.Conjecture
	Lemmas      []model.Lemma

	objCounter  int
	conCounter  int
	dirCounter  int
	conjCounter int
	lemCounter  int

	version int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Version returns the change counter. Every successful structural mutation
// increments it by exactly one; callers use it to detect "has anything
// changed since I last looked".
func (l *Ledger) Version() int {
	return l.version
}

func (l *Ledger) nextObjID() string {
	l.objCounter++
	return fmt.Sprintf("obj_%03d", l.objCounter)
}

func (l *Ledger) nextConID() string {
	l.conCounter++
	return fmt.Sprintf("con_%03d", l.conCounter)
}

func (l *Ledger) nextDirID() string {
	l.dirCounter++
	return fmt.Sprintf("dir_%03d", l.dirCounter)
}

func (l *Ledger) nextConjID() string {
	l.conjCounter++
	return fmt.Sprintf("conj_%03d", l.conjCounter)
}

func (l *Ledger) nextLemID() string {
	l.lemCounter++
	return fmt.Sprintf("lem_%03d", l.lemCounter)
}

// AddObject appends a new mathematical object and returns it.
func (l *Ledger) AddObject(name, definition, comment string) model.MathObject {
	obj := model.MathObject{ID: l.nextObjID(), Name: name, Definition: definition, Comment: comment}
	l.Objects = append(l.Objects, obj)
	l.version++
	return obj
}

// AddConcept appends a new mathematical concept and returns it.
func (l *Ledger) AddConcept(name, definition, comment string) model.MathConcept {
	con := model.MathConcept{ID: l.nextConID(), Name: name, Definition: definition, Comment: comment}
	l.Concepts = append(l.Concepts, con)
	l.version++
	return con
}

// AddDirection appends a new exploration direction and returns it.
func (l *Ledger) AddDirection(description, comment string) model.Direction {
	dir := model.Direction{ID: l.nextDirID(), Description: description, Comment: comment}
	l.Directions = append(l.Directions, dir)
	l.version++
	return dir
}

// AddConjecture appends a new conjecture and returns it.
func (l *Ledger) AddConjecture(statement string, confidence model.Confidence, comment string) model.Conjecture {
	if confidence == "" {
		confidence = model.ConfidenceMedium
	}
	conj := model.Conjecture{ID: l.nextConjID(), Statement: statement, Confidence: confidence, Comment: comment}
	l.Conjectures = append(l.Conjectures, conj)
	l.version++
	return conj
}

// AddLemma appends a new proven conclusion and returns it.
func (l *Ledger) AddLemma(statement, proof string) model.Lemma {
	lem := model.Lemma{ID: l.nextLemID(), Statement: statement, Proof: proof}
	l.Lemmas = append(l.Lemmas, lem)
	l.version++
	return lem
}

// ObjectByID returns the object with the given id, or nil.
func (l *Ledger) ObjectByID(id string) *model.MathObject {
	for i := range l.Objects {
		if l.Objects[i].ID == id {
			return &l.Objects[i]
		}
	}
	return nil
}

// ConceptByID returns the concept with the given id, or nil.
func (l *Ledger) ConceptByID(id string) *model.MathConcept {
	for i := range l.Concepts {
		if l.Concepts[i].ID == id {
			return &l.Concepts[i]
		}
	}
	return nil
}

// DirectionByID returns the direction with the given id, or nil.
func (l *Ledger) DirectionByID(id string) *model.Direction {
	for i := range l.Directions {
		if l.Directions[i].ID == id {
			return &l.Directions[i]
		}
	}
	return nil
}

// ConjectureByID returns the conjecture with the given id, or nil.
func (l *Ledger) ConjectureByID(id string) *model.Conjecture {
	for i := range l.Conjectures {
		if l.Conjectures[i].ID == id {
			return &l.Conjectures[i]
		}
	}
	return nil
}

// LemmaByID returns the lemma with the given id, or nil.
func (l *Ledger) LemmaByID(id string) *model.Lemma {
	for i := range l.Lemmas {
		if l.Lemmas[i].ID == id {
			return &l.Lemmas[i]
		}
	}
	return nil
}

// ModifyObject updates the named fields of an object. Unknown ids return
// false without touching the version counter.
func (l *Ledger) ModifyObject(id string, fields map[string]string) bool {
	obj := l.ObjectByID(id)
	if obj == nil {
		return false
	}
	for k, v := range fields {
		switch k {
		case "name":
			obj.Name = v
		case "definition", "type_and_definition":
			obj.Definition = v
		case "comment":
			obj.Comment = v
		}
	}
	l.version++
	return true
}

// ModifyConcept updates the named fields of a concept.
func (l *Ledger) ModifyConcept(id string, fields map[string]string) bool {
	con := l.ConceptByID(id)
	if con == nil {
		return false
	}
	for k, v := range fields {
		switch k {
		case "name":
			con.Name = v
		case "definition":
			con.Definition = v
		case "comment":
			con.Comment = v
		}
	}
	l.version++
	return true
}

// ModifyDirection updates the named fields of a direction. The solved flag
// is one-way and cannot be modified here; use MarkDirectionSolved.
func (l *Ledger) ModifyDirection(id string, fields map[string]string) bool {
	dir := l.DirectionByID(id)
	if dir == nil {
		return false
	}
	for k, v := range fields {
		switch k {
		case "description":
			dir.Description = v
		case "comment":
			dir.Comment = v
		}
	}
	l.version++
	return true
}

// ModifyConjecture updates the named fields of a conjecture. The solved
// flag is one-way and cannot be modified here; use MarkConjectureSolved.
func (l *Ledger) ModifyConjecture(id string, fields map[string]string) bool {
	conj := l.ConjectureByID(id)
	if conj == nil {
		return false
	}
	for k, v := range fields {
		switch k {
		case "statement":
			conj.Statement = v
		case "confidence", "confidence_score":
			conj.Confidence = model.ParseConfidence(v)
		case "comment":
			conj.Comment = v
		}
	}
	l.version++
	return true
}

// ModifyLemma updates the named fields of a lemma.
func (l *Ledger) ModifyLemma(id string, fields map[string]string) bool {
	lem := l.LemmaByID(id)
	if lem == nil {
		return false
	}
	for k, v := range fields {
		switch k {
		case "statement":
			lem.Statement = v
		case "proof":
			lem.Proof = v
		}
	}
	l.version++
	return true
}

// MarkDirectionSolved sets the one-way solved flag on a direction.
func (l *Ledger) MarkDirectionSolved(id string) bool {
	dir := l.DirectionByID(id)
	if dir == nil {
		return false
	}
	dir.Solved = true
	l.version++
	return true
}

// MarkConjectureSolved sets the one-way solved flag on a conjecture.
func (l *Ledger) MarkConjectureSolved(id string) bool {
	conj := l.ConjectureByID(id)
	if conj == nil {
		return false
	}
	conj.Solved = true
	l.version++
	return true
}

// DeleteObject removes an object. Ids are never reused after deletion.
func (l *Ledger) DeleteObject(id string) bool {
	for i := range l.Objects {
		if l.Objects[i].ID == id {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			l.version++
			return true
		}
	}
	return false
}

// DeleteConcept removes a concept.
func (l *Ledger) DeleteConcept(id string) bool {
	for i := range l.Concepts {
		if l.Concepts[i].ID == id {
			l.Concepts = append(l.Concepts[:i], l.Concepts[i+1:]...)
			l.version++
			return true
		}
	}
	return false
}

// DeleteLemma removes a lemma. Directions and conjectures cannot be
// deleted; they are marked solved instead.
func (l *Ledger) DeleteLemma(id string) bool {
	for i := range l.Lemmas {
		if l.Lemmas[i].ID == id {
			l.Lemmas = append(l.Lemmas[:i], l.Lemmas[i+1:]...)
			l.version++
			return true
		}
	}
	return false
}

// ConvertConjectureToLemma adds a lemma carrying the conjecture's
// statement and the given proof, then marks the conjecture solved. The
// conjecture record itself is kept.
func (l *Ledger) ConvertConjectureToLemma(conjID, proof string) (model.Lemma, bool) {
	conj := l.ConjectureByID(conjID)
	if conj == nil {
		return model.Lemma{}, false
	}
	lem := l.AddLemma(conj.Statement, proof)
	l.MarkConjectureSolved(conjID)
	return lem, true
}

// DisplayString renders the whole ledger as the prompt block the oracle
// sees.
func (l *Ledger) DisplayString() string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString("[Current Ledger Content]\n")
	b.WriteString(rule + "\n")

	b.WriteString("\n## I. Mathematical Objects\n")
	if len(l.Objects) == 0 {
		b.WriteString("  (None)\n")
	}
	for _, o := range l.Objects {
		b.WriteString(o.DisplayString() + "\n")
	}

	b.WriteString("\n## II. Mathematical Concepts\n")
	if len(l.Concepts) == 0 {
		b.WriteString("  (None)\n")
	}
	for _, c := range l.Concepts {
		b.WriteString(c.DisplayString() + "\n")
	}

	b.WriteString("\n## III. Exploration Directions\n")
	if len(l.Directions) == 0 {
		b.WriteString("  (None)\n")
	}
	for _, d := range l.Directions {
		b.WriteString(d.DisplayString() + "\n")
	}

	b.WriteString("\n## IV. Mathematical Conjectures\n")
	if len(l.Conjectures) == 0 {
		b.WriteString("  (None)\n")
	}
	for _, c := range l.Conjectures {
		b.WriteString(c.DisplayString() + "\n")
	}

	b.WriteString("\n## V. Conclusions (Lemmas)\n")
	if len(l.Lemmas) == 0 {
		b.WriteString("  (None)\n")
	}
	for _, lem := range l.Lemmas {
		b.WriteString(lem.DisplayString() + "\n")
	}

	b.WriteString("\n" + rule)
	return b.String()
}

// Summary returns the per-collection counts shown at checkpoints.
func (l *Ledger) Summary() string {
	return fmt.Sprintf(`Ledger Summary:
- Mathematical Objects: %d
- Mathematical Concepts: %d
- Exploration Directions: %d
- Mathematical Conjectures: %d
- Proven Conclusions: %d`,
		len(l.Objects), len(l.Concepts), len(l.Directions), len(l.Conjectures), len(l.Lemmas))
}
