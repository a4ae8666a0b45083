package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"vpn-coordination-portal/internal/storage"

	"github.com/spf13/cobra"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Manage VPN requests",
	Long:  `Inspect and manage VPN requests from the terminal.`,
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all VPN requests",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		requests, err := provider.ListRequests(ctx)
		if err != nil {
			slog.Error("Failed to list requests", "error", err)
			os.Exit(1)
		}

		if len(requests) == 0 {
			fmt.Println("No VPN requests found")
			return
		}

		// Print table
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tCREATED AT\tREMOTE CONTACT\tLOCAL TEAM")
		for _, req := range requests {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				req.ID,
				req.Name,
				req.ConnType,
				req.Status,
				req.CreatedAt.Format("2006-01-02 15:04:05"),
				req.RemoteContactEmail,
				req.LocalTeamEmail,
			)
		}
		w.Flush()
	},
}

var requestShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one VPN request in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			slog.Error("Invalid request id", "arg", args[0])
			os.Exit(1)
		}

		req, err := provider.GetRequestByID(ctx, id)
		if err != nil {
			slog.Error("Failed to load request", "id", id, "error", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID:\t%d\n", req.ID)
		fmt.Fprintf(w, "Name:\t%s\n", req.Name)
		fmt.Fprintf(w, "Type:\t%s\n", req.ConnType)
		fmt.Fprintf(w, "Status:\t%s\n", req.Status)
		fmt.Fprintf(w, "Created:\t%s\n", req.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Reason:\t%s\n", req.Reason)
		fmt.Fprintf(w, "Requester:\t%s <%s>\n", req.RequesterName, req.RequesterEmail)
		fmt.Fprintf(w, "Remote contact:\t%s <%s>\n", req.RemoteContactName, req.RemoteContactEmail)
		fmt.Fprintf(w, "Local team:\t%s\n", req.LocalTeamEmail)
		fmt.Fprintf(w, "Remote agreed:\t%v\n", req.RemoteAgreed)
		fmt.Fprintf(w, "Local agreed:\t%v\n", req.LocalAgreed)
		w.Flush()

		printSide := func(label string, data *storage.SideConfig) {
			if data == nil {
				fmt.Printf("\n%s: (not submitted)\n", label)
				return
			}
			pretty, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return
			}
			fmt.Printf("\n%s:\n%s\n", label, pretty)
		}
		printSide("Remote side", req.RemoteData)
		printSide("Local side", req.LocalData)
	},
}

var requestCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a VPN request",
	Long:  `Cancel a non-terminal VPN request. Finalized and already cancelled requests are rejected.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			slog.Error("Invalid request id", "arg", args[0])
			os.Exit(1)
		}

		// Same guard as the admin panel; no notifications are sent.
		engine := newCLIEngine()
		if err := engine.Cancel(ctx, id); err != nil {
			slog.Error("Failed to cancel request", "id", id, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Request #%d cancelled\n", id)
	},
}

func init() {
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestShowCmd)
	requestCmd.AddCommand(requestCancelCmd)
	rootCmd.AddCommand(requestCmd)
}
