package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	sessionout "journel/internal/modules/session/port/out"
	"journel/internal/platform/markdown"
	"journel/internal/platform/slug"
)

// FileProjectResolver resolves a subject id against the project notes the
// surrounding tool keeps under projects/<id>.md. The session subsystem
// never validates subject ids: an unknown subject simply resolves to its
// raw id, and the session is tracked anyway.
type FileProjectResolver struct {
	dir string
}

func NewFileProjectResolver(dir string) sessionout.SubjectResolver {
	return &FileProjectResolver{dir: dir}
}

func (r *FileProjectResolver) Resolve(_ context.Context, subjectID string) (map[string]string, error) {
	context := map[string]string{"subject_name": subjectID}

	// Project notes are named by slug, so "Side Project" and "side-project"
	// find the same note.
	raw, err := os.ReadFile(filepath.Join(r.dir, slug.Make(subjectID)+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return context, nil
		}
		return nil, fmt.Errorf("read project note: %w", err)
	}
	meta, _, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		// A malformed project note must not block session tracking.
		return context, nil
	}

	for metaKey, contextKey := range map[string]string{
		"name":      "subject_name",
		"full_name": "subject_full_name",
		"status":    "subject_status",
		"github":    "subject_github",
	} {
		if v, ok := meta[metaKey].(string); ok && v != "" {
			context[contextKey] = v
		}
	}
	return context, nil
}
