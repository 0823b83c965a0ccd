package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func controllerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "controller", Short: "manage the controller set"}
	cmd.AddCommand(controllerAddCmd(), controllerRemoveCmd(), controllerListCmd())
	return cmd
}

func controllerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <hex-principal>",
		Short: "add a controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			p, err := parsePrincipalFlag(args[0])
			if err != nil {
				return err
			}
			if err := c.AddController(p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func controllerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <hex-principal>",
		Short: "remove a controller (fails if it is the last one)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			p, err := parsePrincipalFlag(args[0])
			if err != nil {
				return err
			}
			if err := c.RemoveController(p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func controllerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list every current controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient()
			if err != nil {
				return err
			}
			for _, p := range c.ListControllers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%x\n", []byte(p))
			}
			return nil
		},
	}
}
