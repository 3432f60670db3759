package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"hostelpass/internal/client"
	"hostelpass/internal/errors"
	"hostelpass/internal/models"
)

// ServerEnv overrides the default remote server.
const ServerEnv = "HOSTEL_SERVER"

func newRemoteCmd() *cobra.Command {
	var server, token string
	newClient := func() *client.Client {
		base := client.DefaultServer
		if env := os.Getenv(ServerEnv); env != "" {
			base = env
		}
		if server != "" {
			base = server
		}
		c := client.New(base)
		c.Token = token
		return c
	}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Query a running hostel server",
	}
	cmd.PersistentFlags().StringVar(&server, "server", "", "server base URL (default $"+ServerEnv+" or "+client.DefaultServer+")")
	cmd.PersistentFlags().StringVar(&token, "token", "", "bearer token")

	var qf queryFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List residents on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			residents, err := newClient().List(cmd.Context(), qf.query())
			if err != nil {
				return err
			}
			return printResidents(cmd.OutOrStdout(), residents)
		},
	}
	qf.register(list)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Print one resident as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newClient().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, r)
		},
	}

	scan := &cobra.Command{
		Use:   "scan <text>",
		Short: "Resolve scanned pass text against the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Student == nil {
				fmt.Fprintln(out, pterm.Warning.Sprint(res.Message))
				return nil
			}
			return printResidents(out, []models.Resident{*res.Student})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print the server's occupancy statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newClient().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), st)
		},
	}

	var username, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := newClient().Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pterm.Success.Sprintf("Signed in as %s (%s)", acc.Name, acc.Role))
			fmt.Fprintln(out, acc.Token)
			return nil
		},
	}
	login.Flags().StringVarP(&username, "username", "u", "", "account name")
	login.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = login.MarkFlagRequired("username")
	_ = login.MarkFlagRequired("password")

	cmd.AddCommand(list, get, scan, stats, login)
	return cmd
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "encode output")
	}
	return nil
}
