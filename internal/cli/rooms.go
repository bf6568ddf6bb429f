package cli

import (
	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	roomsCmd := &cobra.Command{
		Use:   "rooms",
		Short: "Inspect live rooms",
	}

	roomsCmd.AddCommand(newRoomsListCmd())
	roomsCmd.AddCommand(newRoomsGetCmd())

	return roomsCmd
}

func newRoomsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomsResult

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show one room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomResult

			if err := client.Get("/api/v1/rooms/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result.Room)
			return nil
		},
	}
}
