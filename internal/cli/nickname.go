package cli

import (
	"github.com/spf13/cobra"
)

func newNicknameCmd() *cobra.Command {
	nicknameCmd := &cobra.Command{
		Use:   "nickname",
		Short: "Nickname operations",
	}

	nicknameCmd.AddCommand(newNicknameCheckCmd())

	return nicknameCmd
}

func newNicknameCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <nickname>",
		Short: "Check whether a nickname is free",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result NicknameResult

			body := map[string]string{"nickname": args[0]}
			if err := client.Post("/api/v1/nickname/check", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
