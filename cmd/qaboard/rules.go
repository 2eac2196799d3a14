package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"qaboard/internal/backend"
	"qaboard/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the instruction rules the answering process follows",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rules, grouped by file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.InstructionList(cmd.Context())
		if err != nil {
			return err
		}

		if resp.Statistics.TotalInstructions == 0 {
			fmt.Println("No rules defined.")
			return nil
		}

		files := make([]string, 0, len(resp.Files))
		for f := range resp.Files {
			files = append(files, f)
		}
		sort.Strings(files)

		for _, f := range files {
			fmt.Printf("\n%s\n", colorize(colorBold, f))
			for _, r := range resp.Files[f] {
				fmt.Println(formatRuleLine(r))
			}
		}

		fmt.Printf("\n%d rules in %d files (%d active, %d inactive)\n",
			resp.Statistics.TotalInstructions,
			resp.Statistics.TotalFiles,
			resp.Statistics.ActiveCount,
			resp.Statistics.InactiveCount,
		)
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a rule",
	Long: `Create a rule.

Examples:
  qaboard rules add --title "Billing escalation" --instruction "Route to billing." \
      --keywords "billing,invoice" --priority 2 --file billing.json
  qaboard rules add --title "Tone" --instruction "Stay formal." --apply-to-all --new-file tone.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := createRequestFromFlags(cmd)
		if err != nil {
			return err
		}

		warnUnmatchable(req.ApplyToAll, req.Keywords)

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.CreateInstruction(cmd.Context(), req)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("create rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Rule %q created", req.Title)
		return nil
	},
}

var rulesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rewrite a rule in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		instruction, _ := cmd.Flags().GetString("instruction")
		keywords, _ := cmd.Flags().GetString("keywords")
		priority, _ := cmd.Flags().GetInt("priority")
		applyToAll, _ := cmd.Flags().GetBool("apply-to-all")
		inactive, _ := cmd.Flags().GetBool("inactive")
		filename, _ := cmd.Flags().GetString("file")

		if title == "" || instruction == "" {
			return fmt.Errorf("--title and --instruction are required")
		}
		if filename == "" {
			return fmt.Errorf("--file is required")
		}

		warnUnmatchable(applyToAll, keywords)

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.UpdateInstruction(cmd.Context(), args[0], backend.UpdateRuleRequest{
			Filename:    filename,
			Title:       title,
			Priority:    priority,
			Instruction: instruction,
			Keywords:    keywords,
			ApplyToAll:  applyToAll,
			IsActive:    !inactive,
		})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("update rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Rule %s updated", args[0])
		return nil
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("file")
		if filename == "" {
			return fmt.Errorf("--file is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.DeleteInstruction(cmd.Context(), args[0], filename)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("delete rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Rule %s deleted", args[0])
		return nil
	},
}

var rulesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a rule between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("file")
		if filename == "" {
			return fmt.Errorf("--file is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.ToggleInstruction(cmd.Context(), args[0], filename)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("toggle rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Rule %s toggled", args[0])
		return nil
	},
}

var rulesCopyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Duplicate a rule within its file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("file")
		if filename == "" {
			return fmt.Errorf("--file is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.CopyInstruction(cmd.Context(), args[0], filename)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("copy rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Rule %s copied", args[0])
		return nil
	},
}

var rulesTestCmd = &cobra.Command{
	Use:   "test <question>",
	Short: "Dry-run a question against the rule set",
	Long: `Dry-run a question against the rule set.

By default the backend runs the test. With --local, the stored rules are
fetched and matched here instead, which shows the same keyword logic without
running the backend matcher.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		local, _ := cmd.Flags().GetBool("local")

		a, err := newApp()
		if err != nil {
			return err
		}

		if local {
			listing, err := a.client.InstructionList(cmd.Context())
			if err != nil {
				return err
			}
			var all []rules.Rule
			for _, rs := range listing.Files {
				all = append(all, rs...)
			}
			result := rules.Test(question, all)
			printLocalTest(result)
			return nil
		}

		resp, err := a.client.TestInstructions(cmd.Context(), question)
		if err != nil {
			return err
		}
		printBackendTest(resp)
		return nil
	},
}

var rulesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over the rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		stats, err := a.client.InstructionStatistics(cmd.Context())
		if err != nil {
			return err
		}

		if !stats.HasData {
			fmt.Println("No rules defined.")
			return nil
		}

		b := stats.BasicStats
		printStatus("Rules", "%d in %d files", b.TotalCount, b.FilesCount)
		printStatus("Active", "%d", b.ActiveCount)
		printStatus("Inactive", "%d", b.InactiveCount)
		printStatus("Avg priority", "%.1f", b.AvgPriority)

		if len(stats.KeywordStats.TopKeywords) > 0 {
			fmt.Printf("\n%s\n", colorize(colorBold, "Top keywords"))
			for _, kw := range stats.KeywordStats.TopKeywords {
				fmt.Printf("  %-20s %d\n", kw.Keyword, kw.Count)
			}
		}
		return nil
	},
}

var rulesKeywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Rank keyword usage across the rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		analysis, err := a.client.InstructionKeywordAnalysis(cmd.Context())
		if err != nil {
			return err
		}

		if !analysis.HasData {
			fmt.Println("No keywords in use.")
			return nil
		}

		for _, kw := range analysis.KeywordAnalysis {
			fmt.Printf("%3d. %-20s %d (%.1f%%)\n", kw.Rank, kw.Keyword, kw.Count, kw.Percentage)
		}
		fmt.Printf("\n%d unique keywords, %d total uses\n",
			analysis.TotalUniqueKeywords, analysis.TotalKeywordUsage)
		return nil
	},
}

var rulesFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the rule files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		files, err := a.client.InstructionFiles(cmd.Context())
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("No rule files.")
			return nil
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

var rulesFilesDeleteCmd = &cobra.Command{
	Use:   "delete <filename>",
	Short: "Delete a rule file and every rule in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This deletes %s and every rule in it. Use --confirm to proceed.", args[0])
			return nil
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.DeleteInstructionFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("delete rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("File %s deleted", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{rulesAddCmd, rulesEditCmd} {
		c.Flags().String("title", "", "rule title")
		c.Flags().String("instruction", "", "instruction text")
		c.Flags().String("keywords", "", "comma-separated trigger keywords")
		c.Flags().Int("priority", 5, "priority (lower applies first)")
		c.Flags().Bool("apply-to-all", false, "apply to every question regardless of keywords")
		c.Flags().Bool("inactive", false, "store the rule as inactive")
	}
	rulesAddCmd.Flags().String("file", "", "existing rule file to add to")
	rulesAddCmd.Flags().String("new-file", "", "new rule file to create")
	rulesEditCmd.Flags().String("file", "", "rule file holding the rule")
	rulesDeleteCmd.Flags().String("file", "", "rule file holding the rule")
	rulesToggleCmd.Flags().String("file", "", "rule file holding the rule")
	rulesCopyCmd.Flags().String("file", "", "rule file holding the rule")
	rulesTestCmd.Flags().Bool("local", false, "match locally instead of on the backend")
	rulesFilesDeleteCmd.Flags().Bool("confirm", false, "confirm deleting the file")

	rulesFilesCmd.AddCommand(rulesFilesDeleteCmd)

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesEditCmd)
	rulesCmd.AddCommand(rulesDeleteCmd)
	rulesCmd.AddCommand(rulesToggleCmd)
	rulesCmd.AddCommand(rulesCopyCmd)
	rulesCmd.AddCommand(rulesTestCmd)
	rulesCmd.AddCommand(rulesStatsCmd)
	rulesCmd.AddCommand(rulesKeywordsCmd)
	rulesCmd.AddCommand(rulesFilesCmd)
}

// createRequestFromFlags assembles the create payload, resolving the
// file-choice pair the way the creation form does.
func createRequestFromFlags(cmd *cobra.Command) (backend.CreateRuleRequest, error) {
	title, _ := cmd.Flags().GetString("title")
	instruction, _ := cmd.Flags().GetString("instruction")
	keywords, _ := cmd.Flags().GetString("keywords")
	priority, _ := cmd.Flags().GetInt("priority")
	applyToAll, _ := cmd.Flags().GetBool("apply-to-all")
	inactive, _ := cmd.Flags().GetBool("inactive")
	file, _ := cmd.Flags().GetString("file")
	newFile, _ := cmd.Flags().GetString("new-file")

	if title == "" || instruction == "" {
		return backend.CreateRuleRequest{}, fmt.Errorf("--title and --instruction are required")
	}

	req := backend.CreateRuleRequest{
		Title:       title,
		Priority:    priority,
		Instruction: instruction,
		Keywords:    keywords,
		ApplyToAll:  applyToAll,
		IsActive:    !inactive,
	}

	switch {
	case newFile != "" && file != "":
		return backend.CreateRuleRequest{}, fmt.Errorf("--file and --new-file are mutually exclusive")
	case newFile != "":
		req.FileChoice = "new"
		req.Filename = newFile
	case file != "":
		req.FileChoice = "existing"
		req.Filename = file
	default:
		return backend.CreateRuleRequest{}, fmt.Errorf("one of --file or --new-file is required")
	}

	return req, nil
}

// warnUnmatchable mirrors the creation form's warning for rules that can
// never fire. The backend accepts them anyway.
func warnUnmatchable(applyToAll bool, keywords string) {
	r := rules.Rule{ApplyToAll: applyToAll, Keywords: rules.ParseKeywords(keywords)}
	if !r.CanEverMatch() {
		printWarning("rule has no keywords and does not apply to all questions; it will never match")
	}
}

func formatRuleLine(r rules.Rule) string {
	state := "active"
	if !r.IsActive {
		state = "inactive"
	}
	trigger := strings.Join(r.Keywords, ", ")
	if r.ApplyToAll {
		trigger = "all questions"
	}
	return fmt.Sprintf("  %s  p%d  %-8s  %s  [%s]",
		colorize(colorCyan, r.ID), r.Priority, state, r.Title, trigger)
}

func printLocalTest(result rules.Result) {
	if len(result.Matched) == 0 {
		fmt.Println("No active rules match.")
	} else {
		fmt.Printf("%s\n", colorize(colorBold, fmt.Sprintf("%d matching rules (priority order)", len(result.Matched))))
		for _, m := range result.Matched {
			fmt.Printf("  p%d  %s: %s\n", m.Priority, m.Title, m.Reason)
		}
	}
	if len(result.InactiveMatches) > 0 {
		fmt.Printf("\n%d inactive rules would match:\n", len(result.InactiveMatches))
		for _, m := range result.InactiveMatches {
			fmt.Printf("  p%d  %s: %s\n", m.Priority, m.Title, m.Reason)
		}
	}
}

func printBackendTest(resp backend.TestResponse) {
	if len(resp.MatchedInstructions) == 0 {
		fmt.Println("No active rules match.")
	} else {
		fmt.Printf("%s\n", colorize(colorBold, fmt.Sprintf("%d matching rules (priority order)", len(resp.MatchedInstructions))))
		for _, m := range resp.MatchedInstructions {
			fmt.Printf("  p%d  %s: %s\n", m.Priority, m.Title, m.Reason)
		}
	}
	if len(resp.InactiveMatches) > 0 {
		fmt.Printf("\n%d inactive rules would match:\n", len(resp.InactiveMatches))
		for _, m := range resp.InactiveMatches {
			fmt.Printf("  p%d  %s: %s\n", m.Priority, m.Title, m.Reason)
		}
	}
	s := resp.Statistics
	fmt.Printf("\n%d/%d active rules matched (%.1f%%)\n", s.TotalMatched, s.TotalActive, s.MatchRate)
}
