package platform

import (
	"os"
	"path/filepath"
)

// DetectionResult reports whether an editor was found and by which marker.
type DetectionResult struct {
	Editor *Editor

	// Detected is true when any marker directory exists.
	Detected bool

	// Marker is the absolute path of the first marker found.
	Marker string
}

// Detect checks e's project markers first, then its home markers.
func Detect(e *Editor, env Env) DetectionResult {
	check := func(root string, rels []string) (string, bool) {
		if root == "" {
			return "", false
		}
		for _, rel := range rels {
			p := filepath.Join(root, filepath.FromSlash(rel))
			if dirExists(p) {
				return p, true
			}
		}
		return "", false
	}

	if p, ok := check(env.WorkDir, e.ProjectMarkers); ok {
		return DetectionResult{Editor: e, Detected: true, Marker: p}
	}
	if p, ok := check(env.Home, e.HomeMarkers); ok {
		return DetectionResult{Editor: e, Detected: true, Marker: p}
	}
	return DetectionResult{Editor: e}
}

// Detect returns detection results for every registered editor, in order.
func (r *Registry) Detect(env Env) []DetectionResult {
	all := r.All()
	results := make([]DetectionResult, 0, len(all))
	for _, e := range all {
		results = append(results, Detect(e, env))
	}
	return results
}

// Detected returns only the detected editors, in registry order.
func (r *Registry) Detected(env Env) []*Editor {
	var out []*Editor
	for _, res := range r.Detect(env) {
		if res.Detected {
			out = append(out, res.Editor)
		}
	}
	return out
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
