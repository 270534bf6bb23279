package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chatbot-llm/internal/config"
	"chatbot-llm/internal/domain"
	"chatbot-llm/internal/llm"
	"chatbot-llm/internal/repository"
	"chatbot-llm/internal/service"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app se construye perezosamente para que --help no requiera configuración.
type app struct {
	store  *repository.Store
	svc    *service.ChatService
	logger *zap.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, _ := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
	svc := service.NewChatService(store.Chats, store.Messages, service.NewConversationAssembler(store.Messages), llmClient, logger)
	return &app{store: store, svc: svc, logger: logger}, nil
}

func (a *app) Close() {
	a.store.Close()
	a.logger.Sync()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cli_chat",
		Short:        "Chat with the assistant from the terminal",
		SilenceUsage: true,
	}
	root.AddCommand(newListCmd(), newNewCmd(), newShowCmd(), newSendCmd(), newReplCmd())
	return root
}

// withApp abre el store y el cliente LLM alrededor de fn.
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, cmd, args)
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all chats, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			chats, err := a.svc.ListChats(ctx)
			if err != nil {
				return err
			}
			for _, c := range chats {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", c.ID, c.Title)
			}
			return nil
		}),
	}
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create a chat seeded with the greeting",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			id, err := a.svc.CreateChat(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		}),
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Print the messages of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			msgs, err := a.svc.GetMessages(ctx, id)
			if err != nil {
				return err
			}
			printMessages(cmd.OutOrStdout(), msgs)
			return nil
		}),
	}
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <chat-id> <message>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			id, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			turn, err := a.svc.SendMessage(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !turn.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "AI: %s\n", turn.Reply.Text)
			}
			return nil
		}),
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl [chat-id]",
		Short: "Interactive conversation; without an id the latest chat is used",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			var (
				id  int64
				err error
			)
			if len(args) == 1 {
				id, err = parseChatID(args[0])
			} else {
				id, err = a.svc.LatestOrCreate(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			msgs, err := a.svc.GetMessages(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "===== chat %d (/exit para salir) =====\n", id)
			printMessages(out, msgs)

			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				line, readErr := reader.ReadString('\n')
				line = strings.TrimSpace(line)
				if line == "/exit" {
					return nil
				}
				if line != "" {
					turn, err := a.svc.SendMessage(ctx, id, line)
					if err != nil {
						log.Printf("send: %v", err)
					} else {
						fmt.Fprintf(out, "AI: %s\n", turn.Reply.Text)
					}
				}
				if readErr == io.EOF {
					return nil
				}
				if readErr != nil {
					return readErr
				}
			}
		}),
	}
}

func parseChatID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q", raw)
	}
	return id, nil
}

func printMessages(w io.Writer, msgs []domain.Message) {
	for _, m := range msgs {
		role := "AI"
		if m.IsUser() {
			role = "User"
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", m.CreatedAt, role, m.Text)
	}
}
