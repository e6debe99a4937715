package reportrender

import (
	"context"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/smashcolombia/startgg-stats/internal/domain/report"
)

// JSONRenderer writes the report payload as a JSON document. Richer formats
// plug into usecase.ReportRenderer the same way.
type JSONRenderer struct {
	dir string
}

func NewJSONRenderer(dir string) *JSONRenderer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &JSONRenderer{dir: dir}
}

func (r *JSONRenderer) Render(_ context.Context, job report.Job, payload map[string]any) (string, error) {
	document := map[string]any{
		"id":          job.ID,
		"type":        job.Type,
		"generatedAt": job.CreatedAt,
		"data":        payload,
	}
	raw, err := sonic.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", crerr.Wrap(err, "encode report payload")
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", crerr.Wrap(err, "create report directory")
	}

	path := filepath.Join(r.dir, job.ID+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", crerr.Wrap(err, "write report artifact")
	}

	return path, nil
}
