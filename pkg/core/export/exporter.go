package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"xbrl_statements/pkg/core/xbrl"
)

// Exporter writes statements into one directory, one file per query and format.
type Exporter struct {
	Dir     string
	Formats []Format
	log     zerolog.Logger
}

// NewExporter returns an exporter writing into dir. No formats means CSV only.
func NewExporter(dir string, formats []Format, log zerolog.Logger) *Exporter {
	if len(formats) == 0 {
		formats = []Format{FormatCSV}
	}
	return &Exporter{
		Dir:     dir,
		Formats: formats,
		log:     log.With().Str("component", "export").Logger(),
	}
}

// Export writes stmt in every configured format and returns the written paths.
func (e *Exporter) Export(stmt *xbrl.Statement) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	for _, f := range e.Formats {
		path := filepath.Join(e.Dir, FileName(stmt.Query, f))
		if err := writeFile(path, f, stmt); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		e.log.Info().
			Str("query", stmt.Query).
			Str("path", path).
			Int("rows", len(stmt.Rows)).
			Msg("statement written")
	}
	return paths, nil
}

func writeFile(path string, f Format, stmt *xbrl.Statement) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(file)
	if err := Write(bw, f, stmt); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return file.Close()
}
