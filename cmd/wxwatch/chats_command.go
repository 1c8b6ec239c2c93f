package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wxwatch/internal/groups"
)

func newChatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List the chat directory ids and display names from the contacts database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.ContactsDB == "" {
				return fmt.Errorf("paths.contacts_db is not configured")
			}

			contacts, err := groups.LoadContacts(cmd.Context(), cfg.Paths.ContactsDB)
			if err != nil {
				return err
			}
			if len(contacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No group chats found.")
				return nil
			}

			rows := make([][]string, 0, len(contacts))
			for _, contact := range contacts {
				rows = append(rows, []string{contact.DirName, contact.UserName, contact.Label})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{Title: "Directory"},
				{Title: "Chat ID"},
				{Title: "Name"},
			}, rows))
			return nil
		},
	}
}
