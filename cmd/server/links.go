package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dfryer1193/cmsblog/blog/persistence"
	"github.com/dfryer1193/cmsblog/shared/db/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errNoLedger = errors.New("link ledger is not configured; set LINK_LEDGER_PATH or ledger.path")

func openLedger(path string) (*sqlite.SQLiteDB, *persistence.SQLiteLinkRepository, error) {
	if path == "" {
		return nil, nil, errNoLedger
	}

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(path))
	if err := database.Connect(); err != nil {
		return nil, nil, fmt.Errorf("failed to open link ledger: %w", err)
	}
	return database, persistence.NewLinkRepository(database.DB()), nil
}

func runLinksList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, ledger, err := openLedger(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	pending, err := ledger.ListPending(cmd.Context(), listLimit, listOffset)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No comments waiting to be linked.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMMENT ID\tPOST\tNAME\tCREATED")
	for _, c := range pending {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.CommentID, c.PostSlug, c.Name, c.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runLinksResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, ledger, err := openLedger(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := ledger.MarkLinked(cmd.Context(), args[0]); err != nil {
		return err
	}

	log.Info().Str("commentID", args[0]).Msg("Comment marked as linked")
	return nil
}
