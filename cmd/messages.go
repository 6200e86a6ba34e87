package cmd

import (
	"fmt"
	"strings"

	inboxview "github.com/bnema/parent-portal/internal/adapters/render/inbox"
	"github.com/bnema/parent-portal/internal/domain"
	"github.com/spf13/cobra"
)

func newMessagesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Read and answer messages from teachers and staff",
	}

	cmd.AddCommand(
		newMessagesListCmd(app),
		newMessagesShowCmd(app),
		newMessagesReplyCmd(app),
		newMessagesDeleteCmd(app),
	)

	return cmd
}

func newMessagesListCmd(app *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireRoute(app, domain.RouteMessages); err != nil {
				return err
			}

			conversations := app.inbox.Search(query)
			rendered, err := app.renderList(conversations, inboxview.RenderOptions{Now: app.now(), Query: query})
			if err != nil {
				return fmt.Errorf("render messages: %w", err)
			}
			return writeLine(cmd.OutOrStdout(), "%s", rendered)
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Only show conversations mentioning this text")

	return cmd
}

func newMessagesShowCmd(app *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Open a conversation and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoute(app, domain.RouteMessages); err != nil {
				return err
			}

			if err := app.inbox.Select(domain.ConversationID(args[0])); err != nil {
				return err
			}
			if err := app.saveInbox(cmd.Context()); err != nil {
				return err
			}

			conversation, _ := app.inbox.Selected()
			rendered, err := app.renderThread(conversation, app.inbox.Draft(), inboxview.RenderOptions{Now: app.now(), Width: width})
			if err != nil {
				return fmt.Errorf("render conversation: %w", err)
			}
			return writeLine(cmd.OutOrStdout(), "%s", rendered)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Wrap message bodies at this many columns")

	return cmd
}

func newMessagesReplyCmd(app *app) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "reply <id>",
		Short: "Send a reply in a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoute(app, domain.RouteMessages); err != nil {
				return err
			}

			if err := app.inbox.Select(domain.ConversationID(args[0])); err != nil {
				return err
			}
			app.inbox.UpdateDraft(text)

			utterance, err := app.inbox.SendReply()
			if err != nil {
				// Reading the thread still marked it read.
				if saveErr := app.saveInbox(cmd.Context()); saveErr != nil {
					app.log.Warn().Err(saveErr).Msg("save inbox after failed reply")
				}
				return err
			}
			if err := app.saveInbox(cmd.Context()); err != nil {
				return err
			}

			conversation, _ := app.inbox.Selected()
			return writeLine(cmd.OutOrStdout(), "Sent reply to %q at %s", conversation.Subject, utterance.Timestamp.Local().Format("Jan 2 15:04"))
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Reply text")

	return cmd
}

func newMessagesDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoute(app, domain.RouteMessages); err != nil {
				return err
			}

			id := domain.ConversationID(strings.TrimSpace(args[0]))
			if err := app.inbox.DeleteConversation(id); err != nil {
				return err
			}
			if err := app.saveInbox(cmd.Context()); err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), "Deleted conversation %s", id)
		},
	}
}
