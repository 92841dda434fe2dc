package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9][a-z0-9\-_]*$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateSlug checks a content identifier (track, module, badge id).
func ValidateSlug(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if !slugRegex.MatchString(id) {
		return fmt.Errorf("invalid id %q: lowercase alphanumerics, dash and underscore only", id)
	}
	return nil
}

// ValidateTrack checks a track definition at authoring time: unique ids,
// known prerequisite targets, no self-loops, an acyclic prerequisite graph
// and at most one explicit entry point. The resolver assumes a DAG, so
// cyclic definitions must never be saved.
func ValidateTrack(t *TrackDef) error {
	if err := ValidateSlug(t.ID); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	if t.Title == "" {
		return fmt.Errorf("track %s: title is required", t.ID)
	}
	if len(t.Modules) == 0 {
		return fmt.Errorf("track %s: at least one module is required", t.ID)
	}

	ids := make(map[string]bool, len(t.Modules))
	entryPoints := 0
	for i := range t.Modules {
		m := &t.Modules[i]
		if err := ValidateSlug(m.ID); err != nil {
			return fmt.Errorf("module: %w", err)
		}
		if ids[m.ID] {
			return fmt.Errorf("duplicate module id %q", m.ID)
		}
		ids[m.ID] = true
		if m.EntryPoint {
			entryPoints++
		}
		if m.XPReward < 0 {
			return fmt.Errorf("module %s: xp_reward must not be negative", m.ID)
		}
		if m.PassingScore < 0 || m.PassingScore > 100 {
			return fmt.Errorf("module %s: passing_score must be 0-100", m.ID)
		}
		subIDs := make(map[string]bool, len(m.SubModules))
		for _, sm := range m.SubModules {
			if err := ValidateSlug(sm.ID); err != nil {
				return fmt.Errorf("module %s sub-module: %w", m.ID, err)
			}
			if subIDs[sm.ID] {
				return fmt.Errorf("module %s: duplicate sub-module id %q", m.ID, sm.ID)
			}
			subIDs[sm.ID] = true
			if sm.XPValue < 0 {
				return fmt.Errorf("module %s sub-module %s: xp_value must not be negative", m.ID, sm.ID)
			}
		}
	}
	if entryPoints > 1 {
		return fmt.Errorf("track %s: at most one entry-point module allowed", t.ID)
	}

	for i := range t.Modules {
		m := &t.Modules[i]
		for _, p := range m.Prerequisites {
			if p == m.ID {
				return fmt.Errorf("module %s: prerequisite references itself", m.ID)
			}
			if !ids[p] {
				return fmt.Errorf("module %s: unknown prerequisite %q", m.ID, p)
			}
		}
	}

	return validateAcyclic(t.Modules)
}

// validateAcyclic runs Kahn's algorithm over the prerequisite edges; any
// module left unprocessed sits on a cycle.
func validateAcyclic(modules []ModuleDef) error {
	indegree := make(map[string]int, len(modules))
	dependents := make(map[string][]string, len(modules))
	for i := range modules {
		m := &modules[i]
		indegree[m.ID] += 0
		for _, p := range m.Prerequisites {
			indegree[m.ID]++
			dependents[p] = append(dependents[p], m.ID)
		}
	}

	queue := make([]string, 0, len(modules))
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if processed != len(modules) {
		return fmt.Errorf("prerequisite graph contains a cycle")
	}
	return nil
}

// ValidateBadge checks a badge definition at authoring time. Unknown
// criterion types are rejected here so the evaluator's fail-closed path
// only fires for definitions that predate a type's removal.
func ValidateBadge(b *BadgeDef) error {
	if err := ValidateSlug(b.ID); err != nil {
		return fmt.Errorf("badge: %w", err)
	}
	if b.Name == "" {
		return fmt.Errorf("badge %s: name is required", b.ID)
	}
	if !b.Rarity.IsValid() {
		return fmt.Errorf("badge %s: invalid rarity %q", b.ID, b.Rarity)
	}
	if len(b.Criteria) == 0 {
		return fmt.Errorf("badge %s: at least one criterion is required", b.ID)
	}
	if b.Rewards.XP < 0 || b.Rewards.Coins < 0 {
		return fmt.Errorf("badge %s: rewards must not be negative", b.ID)
	}
	for i, c := range b.Criteria {
		if !c.Type.IsValid() {
			return fmt.Errorf("badge %s criterion %d: unknown type %q", b.ID, i, c.Type)
		}
		if c.Type.Numeric() {
			if !c.Operator.IsValid() {
				return fmt.Errorf("badge %s criterion %d: invalid operator %q", b.ID, i, c.Operator)
			}
			if c.Threshold < 0 {
				return fmt.Errorf("badge %s criterion %d: threshold must not be negative", b.ID, i)
			}
		}
		if (c.Type == CriterionTrackCompletion || c.Type == CriterionModuleCompletion) && c.Target == "" {
			return fmt.Errorf("badge %s criterion %d: %s requires a target", b.ID, i, c.Type)
		}
	}
	return nil
}
