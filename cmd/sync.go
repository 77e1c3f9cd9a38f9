package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-cli/internal/fetcher"
	"github.com/sells-group/contact-cli/internal/source"
)

var (
	syncHost string
	syncPath string
	syncDir  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the bulk filing archive into the local filings directory",
	Long: "Downloads the bulk filing archive from the FTP mirror and splits it " +
		"into per-filing files that the filings adapter reads.",
	RunE: func(cmd *cobra.Command, args []string) error {
		host := syncHost
		if host == "" {
			host = cfg.Filings.FTPHost
		}
		path := syncPath
		if path == "" {
			path = cfg.Filings.FTPPath
		}
		dir := syncDir
		if dir == "" {
			dir = cfg.Filings.LocalDir
		}
		if host == "" || path == "" {
			return eris.New("sync: ftp host and path are required (flags or config)")
		}
		if dir == "" {
			return eris.New("sync: filings directory is required (flag or config)")
		}

		ftpFetcher := fetcher.NewFTPFetcher(time.Duration(cfg.Fetch.TimeoutSecs) * time.Second)
		archiveURL := fmt.Sprintf("ftp://%s%s", host, path)

		written, err := source.SyncFilings(cmd.Context(), ftpFetcher, archiveURL, dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "synced %d filings into %s\n", written, dir)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncHost, "ftp-host", "", "FTP mirror host (default from config)")
	syncCmd.Flags().StringVar(&syncPath, "ftp-path", "", "archive path on the mirror (default from config)")
	syncCmd.Flags().StringVar(&syncDir, "dir", "", "local filings directory (default from config)")
	rootCmd.AddCommand(syncCmd)
}
