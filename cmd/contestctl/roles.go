package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pitchcontest/models"
)

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleJudge, models.RoleRegistrar:
		return true
	}
	return false
}

func newAddRoleCommand() *cobra.Command {
	var contestID, userID, role string

	cmd := &cobra.Command{
		Use:   "add-role",
		Short: "Grant a contest role (admin, judge, registrar) to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := st.GetContest(ctx, contestID); err != nil {
				return err
			}
			if err := st.AddRole(ctx, contestID, userID, role); err != nil {
				return err
			}
			fmt.Printf("%s granted %s on %s\n", userID, role, contestID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User reference")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Role name")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newRemoveRoleCommand() *cobra.Command {
	var contestID, userID, role string

	cmd := &cobra.Command{
		Use:   "remove-role",
		Short: "Revoke a contest role from a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			if err := st.RemoveRole(cmd.Context(), contestID, userID, role); err != nil {
				return err
			}
			fmt.Printf("%s revoked %s on %s\n", userID, role, contestID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contestID, "contest", "c", "", "Contest reference")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User reference")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Role name")
	_ = cmd.MarkFlagRequired("contest")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
