package ledger

import (
	"fmt"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

// Update is one instruction from the oracle's update pass.
type Update struct {
	Operation  string         `json:"operation"`   // add | modify | mark_solved | delete
	EntityType string         `json:"entity_type"` // object | concept | direction | conjecture | lemma
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data"`
	Reason     string         `json:"reason"`
}

// UpdateBatch is the structured update response.
type UpdateBatch struct {
	Updates []Update `json:"updates"`
	Summary string   `json:"summary"`
}

// ApplyUpdates applies a batch of update instructions and returns one
// human-readable result line per instruction. A failed instruction never
// aborts the batch.
func (l *Ledger) ApplyUpdates(updates []Update) []string {
	results := make([]string, 0, len(updates))
	for _, u := range updates {
		switch u.Operation {
		case "add":
			id, err := l.applyAdd(u)
			if err != nil {
				results = append(results, fmt.Sprintf("add %s failed: %v", u.EntityType, err))
			} else {
				results = append(results, fmt.Sprintf("added %s %s - %s", u.EntityType, id, u.Reason))
			}
		case "modify":
			if l.applyModify(u) {
				results = append(results, fmt.Sprintf("modified %s %s - %s", u.EntityType, u.EntityID, u.Reason))
			} else {
				results = append(results, fmt.Sprintf("modify %s %s failed: not found", u.EntityType, u.EntityID))
			}
		case "mark_solved":
			if l.applyMarkSolved(u) {
				results = append(results, fmt.Sprintf("marked %s %s as completely solved - %s", u.EntityType, u.EntityID, u.Reason))
			} else {
				results = append(results, fmt.Sprintf("mark_solved %s %s failed: not found or not applicable", u.EntityType, u.EntityID))
			}
		case "delete":
			if l.applyDelete(u) {
				results = append(results, fmt.Sprintf("deleted %s %s - %s", u.EntityType, u.EntityID, u.Reason))
			} else {
				results = append(results, fmt.Sprintf("delete %s %s failed: not found or not applicable", u.EntityType, u.EntityID))
			}
		default:
			results = append(results, fmt.Sprintf("unknown operation %q on %s", u.Operation, u.EntityType))
		}
	}
	return results
}

func (l *Ledger) applyAdd(u Update) (string, error) {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := u.Data[k]; ok {
				if s, ok := v.(string); ok {
					return s
				}
			}
		}
		return ""
	}

	switch u.EntityType {
	case "object":
		obj := l.AddObject(get("name"), get("definition", "type_and_definition"), get("comment"))
		return obj.ID, nil
	case "concept":
		con := l.AddConcept(get("name"), get("definition"), get("comment"))
		return con.ID, nil
	case "direction":
		dir := l.AddDirection(get("description"), get("comment"))
		return dir.ID, nil
	case "conjecture":
		conf := get("confidence", "confidence_score")
		conj := l.AddConjecture(get("statement"), model.ParseConfidence(conf), get("comment"))
		return conj.ID, nil
	case "lemma":
		lem := l.AddLemma(get("statement"), get("proof"))
		return lem.ID, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", u.EntityType)
	}
}

func (l *Ledger) applyModify(u Update) bool {
	fields := make(map[string]string, len(u.Data))
	for k, v := range u.Data {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	switch u.EntityType {
	case "object":
		return l.ModifyObject(u.EntityID, fields)
	case "concept":
		return l.ModifyConcept(u.EntityID, fields)
	case "direction":
		return l.ModifyDirection(u.EntityID, fields)
	case "conjecture":
		return l.ModifyConjecture(u.EntityID, fields)
	case "lemma":
		return l.ModifyLemma(u.EntityID, fields)
	}
	return false
}

// mark_solved applies to directions and conjectures only.
func (l *Ledger) applyMarkSolved(u Update) bool {
	switch u.EntityType {
	case "direction":
		return l.MarkDirectionSolved(u.EntityID)
	case "conjecture":
		return l.MarkConjectureSolved(u.EntityID)
	}
	return false
}

// delete applies to objects, concepts, and lemmas only.
func (l *Ledger) applyDelete(u Update) bool {
	switch u.EntityType {
	case "object":
		return l.DeleteObject(u.EntityID)
	case "concept":
		return l.DeleteConcept(u.EntityID)
	case "lemma":
		return l.DeleteLemma(u.EntityID)
	}
	return false
}
