package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
	"github.com/custodia-labs/printdrop/internal/core/services"
	"github.com/custodia-labs/printdrop/internal/logger"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent imports",
	Long: `Show the most recent print jobs recorded in the import journal,
newest first. Every handled connection is listed: imported, discarded and
failed jobs alike.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", services.DefaultHistoryLimit, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	svc := historyService
	if svc == nil {
		s, err := loadSettings(cmd.Flags())
		if err != nil {
			return err
		}
		if !s.JournalEnabled {
			cmd.Println("Import journal is disabled.")
			return nil
		}
		journal, err := openJournal(s)
		if err != nil {
			return err
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Warn("closing import journal: %v", err)
			}
		}()
		svc = services.NewHistoryService(journal)
	}

	return printHistory(cmd, svc)
}

func printHistory(cmd *cobra.Command, svc driving.HistoryService) error {
	records, err := svc.Recent(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if historyJSON {
		return outputHistoryJSON(cmd, records)
	}
	return outputHistoryTable(cmd, records)
}

type historyEntry struct {
	ID         string    `json:"id,omitempty"`
	Outcome    string    `json:"outcome"`
	Bytes      int64     `json:"bytes"`
	RemoteAddr string    `json:"remoteAddr,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
}

func outputHistoryJSON(cmd *cobra.Command, records []domain.ImportRecord) error {
	entries := make([]historyEntry, 0, len(records))
	for i := range records {
		entries = append(entries, historyEntry{
			ID:         records[i].ID,
			Outcome:    string(records[i].Outcome),
			Bytes:      records[i].Bytes,
			RemoteAddr: records[i].RemoteAddr,
			StartedAt:  records[i].StartedAt,
			DurationMS: records[i].Duration().Milliseconds(),
			Error:      records[i].Error,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputHistoryTable(cmd *cobra.Command, records []domain.ImportRecord) error {
	if len(records) == 0 {
		cmd.Println("No imports recorded.")
		return nil
	}

	styles := newOutputStyles(cmd.OutOrStdout())
	for i := range records {
		rec := &records[i]
		id := rec.ID
		if id == "" {
			id = "-"
		}
		line := fmt.Sprintf("%s  %s  %10d bytes  %s  %s",
			styles.dim(rec.StartedAt.Local().Format("2006-01-02 15:04:05")),
			styles.outcome(rec.Outcome), rec.Bytes, id, styles.dim(rec.RemoteAddr))
		if rec.Error != "" {
			line += "  (" + rec.Error + ")"
		}
		cmd.Println(line)
	}
	return nil
}
