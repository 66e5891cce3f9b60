package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository"
	"github.com/wadjakorntonsri/go-custom-links/pkg/config"
	"github.com/wadjakorntonsri/go-custom-links/pkg/core/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var databaseURL string

	open := func() (repository.Backend, error) {
		url := databaseURL
		if url == "" {
			url = config.Load().DatabaseURL
		}
		return repository.Open(url)
	}

	root := &cobra.Command{
		Use:           "customlinks",
		Short:         "Inspect stored users and links",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "db", "", "database URL (overrides DATABASE_URL)")

	root.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := open()
			if err != nil {
				return err
			}
			defer backend.Close()

			users, err := backend.ListUsers(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "list users")
			}
			return printUsers(cmd.OutOrStdout(), users)
		},
	})

	var email string
	linksCmd := &cobra.Command{
		Use:   "links --email <address>",
		Short: "List the stored links of a user in store order",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := open()
			if err != nil {
				return err
			}
			defer backend.Close()

			user, err := backend.GetUserByEmail(cmd.Context(), email)
			if err != nil {
				return errors.Wrap(err, "look up user")
			}
			if user == nil {
				return errors.Errorf("no user registered for %s", email)
			}

			links, err := backend.Query(cmd.Context(), domain.LinkFilter{UserID: user.ID})
			if err != nil {
				return errors.Wrap(err, "query links")
			}
			return printLinks(cmd.OutOrStdout(), links)
		},
	}
	linksCmd.Flags().StringVar(&email, "email", "", "user email")
	_ = linksCmd.MarkFlagRequired("email")
	root.AddCommand(linksCmd)

	return root
}

func printUsers(w io.Writer, users []domain.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func printLinks(w io.Writer, links []domain.StoredLink) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tURL")
	for _, l := range links {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", l.ID, l.Title, l.URL)
	}
	return tw.Flush()
}
