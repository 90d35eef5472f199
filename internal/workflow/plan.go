package workflow

import (
	"path/filepath"
	"sort"

	"harmonize/internal/classify"
	"harmonize/internal/scan"
)

// Task binds one scanned entry to its pipeline and target path.
type Task struct {
	Entry      scan.Entry
	Kind       classify.Kind
	TargetPath string
}

// Plan builds one task per snapshot entry, in snapshot order. Entries that
// resolve to the same target path fail with a *CollisionError.
func Plan(snapshot *scan.Snapshot, classifier *classify.Classifier, targetRoot string) ([]Task, error) {
	tasks := make([]Task, 0, snapshot.Count())
	seen := make(map[string][]string, snapshot.Count())
	for _, entry := range snapshot.Entries {
		kind := classifier.Classify(entry.RelativePath)
		rel := classifier.TargetRelPath(entry.RelativePath, kind)
		target := filepath.Join(targetRoot, filepath.FromSlash(rel))
		seen[target] = append(seen[target], entry.SourcePath)
		tasks = append(tasks, Task{Entry: entry, Kind: kind, TargetPath: target})
	}

	var collisions []string
	for target, sources := range seen {
		if len(sources) > 1 {
			collisions = append(collisions, target)
		}
	}
	if len(collisions) > 0 {
		sort.Strings(collisions)
		first := collisions[0]
		return nil, &CollisionError{Target: first, Sources: seen[first]}
	}
	return tasks, nil
}

// Needs reports which pipelines tasks exercise.
func Needs(tasks []Task) (audio, cover bool) {
	for _, task := range tasks {
		switch task.Kind {
		case classify.Audio:
			audio = true
		case classify.CoverImage:
			cover = true
		case classify.Opaque:
		}
	}
	return audio, cover
}
