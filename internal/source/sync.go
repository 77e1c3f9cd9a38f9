package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Downloader retrieves a bulk file by URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// SyncFilings downloads a bulk filing archive (a JSON array of filings) and
// splits it into per-filing files under dir, the layout DirIndex reads.
// Existing files for the same EIN and year are overwritten. Returns the
// number of filings written.
func SyncFilings(ctx context.Context, dl Downloader, archiveURL, dir string) (int, error) {
	data, err := dl.Download(ctx, archiveURL)
	if err != nil {
		return 0, eris.Wrap(err, "filings: download archive")
	}

	var filings []Filing
	if err := json.Unmarshal(data, &filings); err != nil {
		return 0, eris.Wrap(err, "filings: parse archive")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "filings: create %s", dir)
	}

	written := 0
	for _, f := range filings {
		if f.EIN == 0 || f.Year == 0 {
			zap.L().Warn("filings: skipping archive entry without ein or year",
				zap.Int64("ein", f.EIN),
				zap.Int("year", f.Year),
			)
			continue
		}
		out, marshalErr := json.MarshalIndent(f, "", "  ")
		if marshalErr != nil {
			return written, eris.Wrap(marshalErr, "filings: marshal filing")
		}
		path := filepath.Join(dir, fmt.Sprintf("%d_%d.json", f.EIN, f.Year))
		if writeErr := os.WriteFile(path, out, 0o644); writeErr != nil {
			return written, eris.Wrapf(writeErr, "filings: write %s", path)
		}
		written++
	}

	zap.L().Info("filings: sync complete",
		zap.String("dir", dir),
		zap.Int("written", written),
		zap.Int("skipped", len(filings)-written),
	)
	return written, nil
}
