package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qaboard/internal/qa"
	"qaboard/internal/render"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Inspect and annotate individual Q&A records",
}

var qaShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a record and its session conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		detail, err := a.client.QADetail(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printRecord(detail.TargetQA)

		if len(detail.SessionConversations) > 1 {
			fmt.Printf("\n%s\n", colorize(colorBold, fmt.Sprintf("Session %s (%d turns)", detail.ChatID, len(detail.SessionConversations))))
			for i, turn := range detail.SessionConversations {
				marker := " "
				if turn.ID == detail.TargetQA.ID {
					marker = colorize(colorCyan, "▶")
				}
				fmt.Printf("%s %d. Q: %s\n", marker, i+1, truncate(turn.Question, 100))
				fmt.Printf("     A: %s\n", truncate(render.Text(turn.Answer), 100))
			}
		}
		return nil
	},
}

var qaMatchCmd = &cobra.Command{
	Use:   "match <id> <status>",
	Short: "Set the match status of a record",
	Long: `Set the match status of a record.

Status is one of: matched, not-matched, needs-reinforcement, unreviewed.
"unreviewed" clears the judgment.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := qa.ParseMatchStatus(args[1])
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.UpdateMatchStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("update rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Record %s marked %s", args[0], args[1])
		return nil
	},
}

var qaReflectCmd = &cobra.Command{
	Use:   "reflect <id>",
	Short: "Flag whether corrective action for a record is done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undone, _ := cmd.Flags().GetBool("undone")

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.UpdateReflectionStatus(cmd.Context(), args[0], !undone)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("update rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		if undone {
			printSuccess("Record %s reflection reopened", args[0])
		} else {
			printSuccess("Record %s reflection completed", args[0])
		}
		return nil
	},
}

func init() {
	qaReflectCmd.Flags().Bool("undone", false, "mark the reflection as not completed")

	qaCmd.AddCommand(qaShowCmd)
	qaCmd.AddCommand(qaMatchCmd)
	qaCmd.AddCommand(qaReflectCmd)
}

func printRecord(rec qa.QARecord) {
	fmt.Printf("%s\n", colorize(colorBold, rec.ID))
	printStatus("Chat", "%s", rec.ChatID)
	printStatus("Time", "%s", rec.Timestamp)
	printStatus("Status", "%s", qa.MatchStatusLabel(rec.MatchStatus))
	printStatus("Reflection", "%v", rec.ReflectionCompleted)
	printStatus("Shared", "%v", rec.IsSent)
	if rec.SourceDesc != "" {
		printStatus("Source", "%s", rec.SourceDesc)
	}
	fmt.Printf("\nQ: %s\n", rec.Question)
	fmt.Printf("A: %s\n", render.Text(rec.Answer))
}
