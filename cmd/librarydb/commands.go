package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-gorm-library/internal/core/database"
	"go-gorm-library/internal/domain"
	"go-gorm-library/internal/repo"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, authors, books and orders tables",
		Args:  cobra.NoArgs,
		RunE: a.guard(func(cmd *cobra.Command) error {
			if err := database.Migrate(a.db); err != nil {
				a.log.Error("migrate failed", zap.Error(err))
				return err
			}
			a.log.Info("migrate done")
			return nil
		}),
	}
}

func newOutstandingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding",
		Short: "Print every order whose book has not been returned, as JSON",
		Args:  cobra.NoArgs,
		RunE: a.guard(func(cmd *cobra.Command) error {
			if err := a.migrateIfEnabled(); err != nil {
				return err
			}
			orders, err := a.store.Orders.ListNotReturned(cmd.Context())
			if err != nil {
				return fmt.Errorf("list outstanding orders: %w", err)
			}
			out := make([]domain.Dict, 0, len(orders))
			for i := range orders {
				out = append(out, orders[i].ToDict())
			}
			a.log.Debug("outstanding orders", zap.Int("count", len(out)))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}),
	}
}

func newCreateAdminCmd(a *app) *cobra.Command {
	var email, password, first, last string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active admin account",
		Args:  cobra.NoArgs,
		RunE: a.guard(func(cmd *cobra.Command) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			if err := a.migrateIfEnabled(); err != nil {
				return err
			}
			ctx := cmd.Context()
			u, err := a.store.Users.Create(ctx, email, password, optional(first), nil, optional(last))
			if repo.IsDuplicateKey(err) {
				return fmt.Errorf("user %s already exists", email)
			}
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			role, active := domain.RoleAdmin, true
			if err := a.store.Users.Update(ctx, u, domain.UserPatch{Role: &role, IsActive: &active}); err != nil {
				return fmt.Errorf("promote user: %w", err)
			}
			a.log.Info("admin created", zap.Uint("id", u.ID), zap.String("email", u.Email))
			fmt.Fprintln(cmd.OutOrStdout(), u.String())
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "login email (unique)")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&first, "first-name", "", "")
	cmd.Flags().StringVar(&last, "last-name", "", "")
	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
