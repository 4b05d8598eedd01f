package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sagarc03/roster"
	"github.com/sagarc03/roster/client"
	"github.com/sagarc03/roster/config"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users on a running server",
	Long: `Create, fetch and delete users through the HTTP API of a running
roster server.

The server is taken from --endpoint, ROSTER_CLIENT_ENDPOINT or
client.endpoint in the config file.`,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user and print it with its assigned id.

Examples:
  roster user create --name ada --fullname "Ada Lovelace" --nickname countess
  roster user create -q --name ada --fullname "Ada Lovelace" --nickname countess`,
	Args: cobra.NoArgs,
	RunE: runUserCreate,
}

var userGetCmd = &cobra.Command{
	Use:   "get <id> [id...]",
	Short: "Fetch users by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUserGet,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id> [id...]",
	Short: "Delete users by id",
	Long: `Delete one or more users. Every id is attempted; the command fails if
any of them could not be deleted.

Examples:
  roster user delete 7
  roster user delete 7 8 9 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUserDelete,
}

func init() {
	userCmd.PersistentFlags().String("endpoint", "", "server URL (default: http://localhost:8080, env: ROSTER_CLIENT_ENDPOINT)")
	userCmd.PersistentFlags().Bool("json", false, "output as JSON")
	userCmd.PersistentFlags().BoolP("quiet", "q", false, "print only ids")

	userCreateCmd.Flags().String("name", "", "login name")
	userCreateCmd.Flags().String("fullname", "", "full name")
	userCreateCmd.Flags().String("nickname", "", "nickname")

	userCmd.AddCommand(userCreateCmd, userGetCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}

func getClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client.Endpoint, client.WithTimeout(cfg.Client.Timeout))
}

func getFormatter(cmd *cobra.Command) client.Formatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return client.NewFormatter(jsonOutput, quiet)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	c, err := getClient(cmd)
	if err != nil {
		return err
	}

	var in roster.CreateUser
	in.Name, _ = cmd.Flags().GetString("name")
	in.Fullname, _ = cmd.Flags().GetString("fullname")
	in.Nickname, _ = cmd.Flags().GetString("nickname")

	u, err := c.Create(cmd.Context(), in)
	if err != nil {
		return err
	}

	return getFormatter(cmd).FormatUser(cmd.OutOrStdout(), u)
}

func runUserGet(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	c, err := getClient(cmd)
	if err != nil {
		return err
	}

	users := make([]roster.User, 0, len(ids))
	for _, id := range ids {
		u, err := c.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		users = append(users, u)
	}

	formatter := getFormatter(cmd)
	if len(users) == 1 {
		return formatter.FormatUser(cmd.OutOrStdout(), users[0])
	}
	return formatter.FormatUsers(cmd.OutOrStdout(), users)
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	c, err := getClient(cmd)
	if err != nil {
		return err
	}

	results, err := c.Delete(cmd.Context(), ids)
	if err != nil {
		return err
	}

	if err := getFormatter(cmd).FormatDelete(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if client.HasDeleteErrors(results) {
		return errDeleteFailed
	}
	return nil
}
