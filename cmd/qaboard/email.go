package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"qaboard/internal/backend"
	"qaboard/internal/email"
	"qaboard/internal/qa"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Share records by email and inspect the delivery log",
}

var emailSendCmd = &cobra.Command{
	Use:   "send <qa-id>",
	Short: "Share a record by email",
	Long: `Share a record by email.

Recipients are parsed the way the share form does: addresses separated by
commas or newlines, anything without an @ dropped.

Examples:
  qaboard email send qa-123 --to alice@example.com,bob@example.com
  qaboard email send qa-123 --to ops@example.com --cc lead@example.com --memo "needs follow-up"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toRaw, _ := cmd.Flags().GetString("to")
		ccRaw, _ := cmd.Flags().GetString("cc")
		memo, _ := cmd.Flags().GetString("memo")

		to := email.ParseRecipients(toRaw)
		if len(to) == 0 {
			return &qa.ValidationError{Msg: "at least one valid --to address is required"}
		}
		cc := email.ParseRecipients(ccRaw)

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.SendEmail(cmd.Context(), backend.SendEmailRequest{
			QAID:   args[0],
			ToList: to,
			CcList: cc,
			Memo:   memo,
		})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("send rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Record %s shared with %s", args[0], strings.Join(to, ", "))
		return nil
	},
}

var emailInfoCmd = &cobra.Command{
	Use:   "info <qa-id>",
	Short: "Show delivery details for a shared record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		info, err := a.client.SentInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printSentInfo(args[0], info)
		return nil
	},
}

var emailSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the backend's mail configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		settings, err := a.client.EmailSettings(cmd.Context())
		if err != nil {
			return err
		}

		if settings.FullyAvailable {
			printStatus("Mail", "configured")
		} else {
			printStatus("Mail", "not fully configured")
			if settings.Message != "" {
				printWarning("%s", settings.Message)
			}
		}
		printStatus("SMTP", "%s:%s", settings.SMTPServer, settings.SMTPPort)
		printStatus("Sender", "%s", settings.SenderEmail)
		return nil
	},
}

var emailHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the delivery log",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		history, err := a.client.SentHistory(cmd.Context())
		if err != nil {
			return err
		}

		if history.SentCount == 0 {
			fmt.Println("No emails sent.")
			return nil
		}

		// Stable output order.
		ids := make([]string, 0, len(history.SentEmails))
		for id := range history.SentEmails {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			info := history.SentEmails[id]
			fmt.Printf("%s  %s  to %s\n",
				colorize(colorCyan, id),
				info.SentTime,
				strings.Join(info.To, ", "),
			)
		}
		fmt.Printf("\n%d deliveries\n", history.SentCount)
		return nil
	},
}

var emailHistoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the delivery log",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete the whole delivery log. Use --confirm to proceed.")
			return nil
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.ClearSentHistory(cmd.Context())
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("clear rejected: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Delivery log cleared")
		return nil
	},
}

var emailTestCmd = &cobra.Command{
	Use:   "test <address>",
	Short: "Send a test message to one address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addrs := email.ParseRecipients(args[0])
		if len(addrs) != 1 {
			return &qa.ValidationError{Msg: "exactly one valid address is required"}
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		resp, err := a.client.SendTestEmail(cmd.Context(), addrs[0])
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("test send failed: %s", orDefault(resp.Message, "unknown reason"))
		}

		printSuccess("Test message sent to %s", addrs[0])
		return nil
	},
}

func init() {
	emailSendCmd.Flags().String("to", "", "recipient addresses, comma or newline separated")
	emailSendCmd.Flags().String("cc", "", "cc addresses, comma or newline separated")
	emailSendCmd.Flags().String("memo", "", "memo included with the shared record")
	emailHistoryClearCmd.Flags().Bool("confirm", false, "confirm deleting the delivery log")

	emailHistoryCmd.AddCommand(emailHistoryClearCmd)

	emailCmd.AddCommand(emailSendCmd)
	emailCmd.AddCommand(emailInfoCmd)
	emailCmd.AddCommand(emailSettingsCmd)
	emailCmd.AddCommand(emailHistoryCmd)
	emailCmd.AddCommand(emailTestCmd)
}

func printSentInfo(qaID string, info backend.SentInfo) {
	fmt.Printf("%s\n", colorize(colorBold, qaID))
	printStatus("Sent", "%s", info.SentTime)
	printStatus("To", "%s", strings.Join(info.To, ", "))
	if len(info.Cc) > 0 {
		printStatus("Cc", "%s", strings.Join(info.Cc, ", "))
	}
	if info.Memo != "" {
		printStatus("Memo", "%s", info.Memo)
	}
}
