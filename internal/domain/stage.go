package domain

import "strings"

// Stage is one step of a project's production pipeline. Order values are
// unique per project but need not be contiguous; the seeds leave a gap before
// the terminal stage so intermediate steps can be inserted.
type Stage struct {
	ID          string
	ProjectID   string
	Name        string
	Key         string
	Order       int
	IsProtected bool
	// IsTerminal marks the consuming stage: a batch moved there in full is
	// deleted, a partial move only shrinks the source lot.
	IsTerminal bool
}

// StageKey derives the stable key for a stage name.
func StageKey(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), "_"))
}

// DefaultStages returns the seed pipeline created with every project.
func DefaultStages(projectID string) []*Stage {
	seeds := []struct {
		name     string
		order    int
		terminal bool
	}{
		{"TODO", 0, false},
		{"PURCHASE", 1, false},
		{"STORE", 2, false},
		{"SALES", 101, true},
	}
	stages := make([]*Stage, 0, len(seeds))
	for _, s := range seeds {
		stages = append(stages, &Stage{
			ProjectID:   projectID,
			Name:        s.name,
			Key:         StageKey(s.name),
			Order:       s.order,
			IsProtected: true,
			IsTerminal:  s.terminal,
		})
	}
	return stages
}
