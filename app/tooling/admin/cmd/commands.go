package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type clientFunc func() *Client

func chainCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "chain",
		Short: "Print the chain held by the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, client(), http.MethodGet, "/v1/get_chain", nil)
		},
	}
}

func mineCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "Mine the next block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, client(), http.MethodGet, "/v1/mine_block", nil)
		},
	}
}

func validCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "valid",
		Short: "Check the chain held by the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, client(), http.MethodGet, "/v1/is_valid", nil)
		},
	}
}

func sendCmd(client clientFunc) *cobra.Command {
	var (
		sender   string
		receiver string
		amount   float64
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Add a transaction to the pending pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx := struct {
				Sender   string  `json:"sender"`
				Receiver string  `json:"receiver"`
				Amount   float64 `json:"amount"`
			}{
				Sender:   sender,
				Receiver: receiver,
				Amount:   amount,
			}

			return call(cmd, client(), http.MethodPost, "/v1/add_transaction", tx)
		},
	}

	cmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the transaction.")
	cmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Receiver of the transaction.")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	cmd.MarkFlagRequired("sender")
	cmd.MarkFlagRequired("receiver")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func connectCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <address>...",
		Short: "Register peer nodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes := struct {
				Nodes []string `json:"nodes"`
			}{
				Nodes: args,
			}

			return call(cmd, client(), http.MethodPost, "/v1/connect_node", nodes)
		},
	}
}

func resolveCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Replace the chain with the longest valid peer chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, client(), http.MethodGet, "/v1/replace_chain", nil)
		},
	}
}

// call performs the request and prints the indented response.
func call(cmd *cobra.Command, client *Client, method string, path string, payload any) error {
	data, err := client.Do(cmd.Context(), method, path, payload)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.String())

	return nil
}
