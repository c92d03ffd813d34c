package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashbox-cli",
		Short: "Cashbox CLI tool",
		Long:  `A command line interface for interacting with the cashbox ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the cashbox API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		balanceCmd(),
		postCmd(),
		reverseCmd(),
		entriesCmd(),
		recalculateCmd(),
		branchesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <cashbox-id>",
		Short: "Show the current balance of a cashbox",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/cashboxes/" + args[0] + "/balance")
		},
	}
}

func postCmd() *cobra.Command {
	var (
		direction      string
		amount         string
		category       string
		actor          string
		referenceType  string
		referenceID    string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "post <cashbox-id>",
		Short: "Post an income or expense entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"direction": direction,
				"amount":    amount,
				"category":  category,
				"actor":     actor,
			}
			if referenceType != "" {
				body["reference"] = map[string]string{
					"type": referenceType,
					"id":   referenceID,
				}
			}
			doPost("/api/v1/cashboxes/"+args[0]+"/postings", body, idempotencyKey)
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "income or expense")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 125.50")
	cmd.Flags().StringVar(&category, "category", "", "Entry category")
	cmd.Flags().StringVar(&actor, "actor", "", "Who is posting")
	cmd.Flags().StringVar(&referenceType, "reference-type", "", "Referenced document type")
	cmd.Flags().StringVar(&referenceID, "reference-id", "", "Referenced document ID")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("direction")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func reverseCmd() *cobra.Command {
	var (
		actor string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "reverse <entry-id>",
		Short: "Reverse a posted entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/entries/"+args[0]+"/reverse", map[string]any{
				"actor": actor,
				"notes": notes,
			}, "")
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Who is reversing")
	cmd.Flags().StringVar(&notes, "notes", "", "Reason for the reversal")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func entriesCmd() *cobra.Command {
	var (
		limit    int
		offset   int
		category string
	)

	cmd := &cobra.Command{
		Use:   "entries <cashbox-id>",
		Short: "List entries of a cashbox in append order",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/cashboxes/%s/entries?limit=%d&offset=%d", args[0], limit, offset)
			if category != "" {
				path += "&category=" + category
			}
			doGet(path)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max entries to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")

	return cmd
}

func recalculateCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "recalculate <cashbox-id>",
		Short: "Replay the entry log and correct the stored balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/cashboxes/"+args[0]+"/recalculate", map[string]any{
				"actor": actor,
			}, "")
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Who is recalculating")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func branchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branches",
		Short: "Branch operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List branches",
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/branches")
		},
	})

	var (
		name           string
		address        string
		openingBalance string
		actor          string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a branch with its cashbox",
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/branches", map[string]any{
				"name":            name,
				"address":         address,
				"opening_balance": openingBalance,
				"actor":           actor,
			}, "")
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Branch name")
	createCmd.Flags().StringVar(&address, "address", "", "Branch address")
	createCmd.Flags().StringVar(&openingBalance, "opening-balance", "0", "Opening cashbox balance")
	createCmd.Flags().StringVar(&actor, "actor", "", "Who is creating")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("actor")
	cmd.AddCommand(createCmd)

	return cmd
}

func doGet(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func doPost(path string, body map[string]any, idempotencyKey string) {
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Println(string(raw))
		return
	}
	printJSON(parsed)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
