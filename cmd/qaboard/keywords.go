package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"qaboard/internal/keywords"
	"qaboard/internal/store"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Rank frequent keywords in the cached search's questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 1 || limit > keywords.TopN {
			limit = keywords.TopN
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.LastSearch()
		if err != nil {
			if errors.Is(err, store.ErrNoSearch) {
				return fmt.Errorf("no cached search to analyze; run 'qaboard search' first")
			}
			return err
		}

		questions := make([]string, 0, len(snap.Records))
		for _, r := range snap.Records {
			questions = append(questions, r.Question)
		}

		stats := keywords.Analyze(questions)
		if len(stats) > limit {
			stats = stats[:limit]
		}
		if len(stats) == 0 {
			fmt.Println("No keywords found.")
			return nil
		}

		for i, s := range stats {
			fmt.Printf("%3d. %-20s %d\n", i+1, s.Keyword, s.Count)
			for _, q := range s.ExampleQuestions {
				fmt.Printf("     %s\n", colorize(colorGray, truncate(q, 70)))
			}
		}
		return nil
	},
}

func init() {
	keywordsCmd.Flags().Int("limit", 20, "how many keywords to show")
}
