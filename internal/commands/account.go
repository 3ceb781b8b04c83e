package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

func newAccountCommand(opts *rootOptions) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	accountCmd.AddCommand(
		newAccountAddCommand(opts),
		newAccountListCommand(opts),
		newAccountTreeCommand(opts),
		newAccountShowCommand(opts),
		newAccountRenameCommand(opts),
		newAccountActiveCommand(opts, "activate", true),
		newAccountActiveCommand(opts, "deactivate", false),
		newAccountDeleteCommand(opts),
	)
	return accountCmd
}

// withApp opens the ledger at opts.repo for the duration of fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app, w io.Writer) error) error {
	a, err := openApp(opts.repo)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a, cmd.OutOrStdout())
}

func newAccountAddCommand(opts *rootOptions) *cobra.Command {
	var parent string
	var group bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				p, err := a.account(ctx, parent)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				acct, err := a.accounts.Create(ctx, args[0], !group, p.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Created account %s %s under %s\n", id.Format(acct.ID), acct.Name, p.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "parent group account (required)")
	_ = cmd.MarkFlagRequired("parent")
	cmd.Flags().BoolVar(&group, "group", false, "create a group account that only aggregates its children")

	return cmd
}

func newAccountListCommand(opts *rootOptions) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				all, err := a.accounts.List(ctx, offset, limit)
				if err != nil {
					return err
				}
				return writeAccounts(w, all)
			})
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many accounts")
	cmd.Flags().IntVar(&limit, "limit", 0, "list at most this many accounts (0 for all)")

	return cmd
}

func writeAccounts(w io.Writer, all []model.Account) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tPARENT\tSTATUS")
	for _, acct := range all {
		parent := "-"
		if !acct.IsRoot() {
			parent = id.Format(acct.ParentID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id.Format(acct.ID), acct.Name, kindOf(acct), parent, activeLabel(acct.Active))
	}
	return tw.Flush()
}

func kindOf(acct model.Account) string {
	if acct.Postable {
		return "postable"
	}
	return "group"
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func newAccountTreeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the chart of accounts as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				tree, err := a.accounts.Tree(ctx)
				if err != nil {
					return err
				}
				root, ok := tree.Root()
				if !ok {
					return nil
				}
				var walk func(acct model.Account, depth int) error
				walk = func(acct model.Account, depth int) error {
					name := acct.Name
					if !acct.Postable {
						name += "/"
					}
					if !acct.Active {
						name += " (inactive)"
					}
					fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), id.Format(acct.ID), name)
					children, err := tree.Children(acct.ID)
					if err != nil {
						return err
					}
					for _, c := range children {
						if err := walk(c, depth+1); err != nil {
							return err
						}
					}
					return nil
				}
				if err := walk(root, 0); err != nil {
					return err
				}
				warnEmptyGroups(cmd.ErrOrStderr(), tree)
				return nil
			})
		},
	}
}

// warnEmptyGroups reports groups that no entry can reach. They appear after
// "account add --group" until a postable child is added.
func warnEmptyGroups(w io.Writer, tree *accounts.Tree) {
	for _, g := range tree.EmptyGroups() {
		fmt.Fprintf(w, "warning: group %s %s has no postable accounts\n", id.Format(g.ID), g.Name)
	}
}

func newAccountShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account>",
		Short: "Show an account and its position in the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				acct, err := a.account(ctx, args[0])
				if err != nil {
					return err
				}
				chain, err := a.accounts.Ancestors(ctx, acct.ID)
				if err != nil {
					return err
				}
				children, err := a.accounts.Children(ctx, acct.ID)
				if err != nil {
					return err
				}

				path := []string{acct.Name}
				for _, p := range chain {
					path = append([]string{p.Name}, path...)
				}
				fmt.Fprintf(w, "ID:       %s\n", id.Format(acct.ID))
				fmt.Fprintf(w, "Name:     %s\n", acct.Name)
				fmt.Fprintf(w, "Kind:     %s\n", kindOf(acct))
				fmt.Fprintf(w, "Status:   %s\n", activeLabel(acct.Active))
				fmt.Fprintf(w, "Path:     %s\n", strings.Join(path, " > "))
				if len(children) > 0 {
					names := make([]string, len(children))
					for i, c := range children {
						names[i] = c.Name
					}
					fmt.Fprintf(w, "Children: %s\n", strings.Join(names, ", "))
				}
				return nil
			})
		},
	}
}

func newAccountRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <new-name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				acct, err := a.account(ctx, args[0])
				if err != nil {
					return err
				}
				renamed, err := a.accounts.Rename(ctx, acct.ID, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Renamed account %s %s to %s\n", id.Format(acct.ID), acct.Name, renamed.Name)
				return nil
			})
		},
	}
}

func newAccountActiveCommand(opts *rootOptions, verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <account>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				acct, err := a.account(ctx, args[0])
				if err != nil {
					return err
				}
				if _, err := a.accounts.SetActive(ctx, acct.ID, active); err != nil {
					return err
				}
				fmt.Fprintf(w, "Account %s %s is now %s\n", id.Format(acct.ID), acct.Name, activeLabel(active))
				return nil
			})
		},
	}
}

func newAccountDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account with no entries and no children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app, w io.Writer) error {
				acct, err := a.account(ctx, args[0])
				if err != nil {
					return err
				}
				if err := a.accounts.Delete(ctx, acct.ID); err != nil {
					return err
				}
				fmt.Fprintf(w, "Deleted account %s %s\n", id.Format(acct.ID), acct.Name)
				return nil
			})
		},
	}
}
