package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"qaboard/internal/backend"
	"qaboard/internal/qa"
	"qaboard/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search Q&A records and show the review statistics",
	Long: `Search Q&A records and show the review statistics.

Examples:
  qaboard search                                # today
  qaboard search --date 2026-08-15
  qaboard search --mode range --from 2026-08-01 --to 2026-08-31
  qaboard search --match not-matched --email unsent

The result is cached locally for 'qaboard export', 'qaboard keywords', and
'qaboard serve'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := searchParamsFromFlags(cmd, time.Now())
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		var stats qa.Statistics
		var list backend.QAListResponse
		g, gctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			stats, err = a.client.Statistics(gctx, params)
			return err
		})
		g.Go(func() error {
			var err error
			list, err = a.client.QAList(gctx, params)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveSearch(store.Snapshot{
			Params:     params,
			Statistics: stats,
			Records:    list.QAList,
			FetchedAt:  time.Now(),
		}); err != nil {
			printWarning("could not cache search: %v", err)
		}

		printStatistics(stats)
		fmt.Println()
		printRecordList(list.QAList, list.TotalCount)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("mode", qa.ModeDay, "search mode: day or range")
	searchCmd.Flags().String("date", "", "date YYYY-MM-DD for day mode (default: today)")
	searchCmd.Flags().String("from", "", "start date YYYY-MM-DD for range mode")
	searchCmd.Flags().String("to", "", "end date YYYY-MM-DD for range mode")
	searchCmd.Flags().String("match", qa.FilterAll, "match status filter: all, matched, not-matched, needs-reinforcement, unreviewed")
	searchCmd.Flags().String("email", qa.FilterAll, "email filter: all, sent, unsent")
	searchCmd.Flags().String("reflection", qa.FilterAll, "reflection filter: all, completed, pending")
	searchCmd.Flags().String("session", "", "chat session filter")
}

// searchParamsFromFlags assembles and validates the search parameters. Day
// mode defaults to today; range mode defaults to the last week when neither
// bound is given.
func searchParamsFromFlags(cmd *cobra.Command, now time.Time) (qa.SearchParams, error) {
	mode, _ := cmd.Flags().GetString("mode")
	date, _ := cmd.Flags().GetString("date")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	var params qa.SearchParams
	switch mode {
	case qa.ModeRange:
		params = qa.DefaultRangeParams(now)
		if from != "" {
			params.StartDate = from
		}
		if to != "" {
			params.EndDate = to
		}
	default:
		params = qa.DefaultParams(now)
		params.Mode = mode
		if date != "" {
			params.StartDate = date
		}
	}

	params.MatchFilter, _ = cmd.Flags().GetString("match")
	params.EmailFilter, _ = cmd.Flags().GetString("email")
	params.ReflectionFilter, _ = cmd.Flags().GetString("reflection")
	params.ChatSessionFilter, _ = cmd.Flags().GetString("session")

	if err := params.Validate(); err != nil {
		return qa.SearchParams{}, err
	}
	return params, nil
}

func printStatistics(stats qa.Statistics) {
	printStatus("Users", "%d", stats.TotalUsers)
	printStatus("Matched", "%d (%.1f%%)", stats.Match, stats.Percent(stats.Match))
	printStatus("Not matched", "%d (%.1f%%)", stats.NoMatch, stats.Percent(stats.NoMatch))
	printStatus("Needs reinforcement", "%d (%.1f%%)", stats.NeedImprovement, stats.Percent(stats.NeedImprovement))
	printStatus("Unreviewed", "%d (%.1f%%)", stats.NotEvaluated, stats.Percent(stats.NotEvaluated))
}

func printRecordList(records []qa.QARecord, total int) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  %-20s  %s\n",
			colorize(colorCyan, rec.ID),
			rec.Timestamp,
			statusTag(rec),
			truncate(rec.Question, 80),
		)
	}
	fmt.Printf("\n%d of %d records\n", len(records), total)
}

// statusTag is the compact review-state column of the listing.
func statusTag(rec qa.QARecord) string {
	tag := qa.MatchStatusLabel(rec.MatchStatus)
	if rec.IsSent {
		tag += " ✉"
	}
	if rec.ReflectionCompleted {
		tag += " ✔"
	}
	return tag
}
