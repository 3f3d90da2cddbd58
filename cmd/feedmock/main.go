// Command feedmock seeds the mock backend and exercises one operation per
// subcommand, printing the response the consuming client would receive.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"feedmock/internal/latency"
	"feedmock/internal/models"
	"feedmock/internal/service"
)

var (
	userCount int
	postCount int
	seed      uint64
	noDelay   bool
	verbose   bool
)

func newAPI() (*service.API, error) {
	delay := latency.Default
	if noDelay {
		delay = latency.None
	}
	opts := []service.Option{}
	if verbose {
		opts = append(opts, service.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return service.New(service.Config{
		Users: userCount,
		Posts: postCount,
		Seed:  seed,
		Delay: delay,
	}, opts...)
}

// printData mirrors the {data: ...} envelope the client consumes.
func printData(v any) error {
	return printJSON(map[string]any{"data": v})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func atoiArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, s)
	}
	return n, nil
}

func main() {
	root := &cobra.Command{
		Use:   "feedmock",
		Short: "In-memory mock content backend",
		Long: `feedmock seeds an in-memory population of users and posts and serves the
operations a content-browsing client would call against a real API. Each
invocation is one simulated round trip; state lives only for the process.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&userCount, "users", service.DefaultUsers, "Seeded user count")
	root.PersistentFlags().IntVar(&postCount, "posts", service.DefaultPosts, "Seeded post count")
	root.PersistentFlags().Uint64Var(&seed, "seed", 0, "Generation seed (0 draws from the clock)")
	root.PersistentFlags().BoolVar(&noDelay, "no-delay", false, "Skip the simulated network delay")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log served operations")

	var category, search string
	var authorID int
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			posts, err := api.ListPosts(cmd.Context(), models.Filter{
				Category:   category,
				SearchTerm: search,
				AuthorID:   authorID,
			})
			if err != nil {
				return err
			}
			return printData(posts)
		},
	}
	postsCmd.Flags().StringVar(&category, "category", "", "Exact category match")
	postsCmd.Flags().StringVar(&search, "search", "", "Substring search across title, summary and body")
	postsCmd.Flags().IntVar(&authorID, "author", 0, "Exact author identity match")

	postCmd := &cobra.Command{
		Use:   "post <id>",
		Short: "Fetch one post, incrementing its view counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := atoiArg(args[0], "id")
			if err != nil {
				return err
			}
			api, err := newAPI()
			if err != nil {
				return err
			}
			post, err := api.GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printData(post)
		},
	}

	var draft models.Draft
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post from a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			post, err := api.CreatePost(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return printData(post)
		},
	}
	createCmd.Flags().StringVar(&draft.Title, "title", "", "Post title")
	createCmd.Flags().StringVar(&draft.Summary, "summary", "", "Post summary")
	createCmd.Flags().StringVar(&draft.Body, "body", "", "Post body")
	createCmd.Flags().StringVar(&draft.Category, "category", "", "Post category")
	createCmd.Flags().IntVar(&draft.AuthorID, "author", 0, "Author identity (defaults to user 1)")

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Group the post table by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			cats, err := api.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			return printData(cats)
		},
	}

	announcementsCmd := &cobra.Command{
		Use:   "announcements",
		Short: "Generate an ephemeral announcement batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			anns, err := api.GetAnnouncements(cmd.Context())
			if err != nil {
				return err
			}
			return printData(anns)
		},
	}

	profileCmd := &cobra.Command{
		Use:   "profile <id>",
		Short: "Fetch a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := atoiArg(args[0], "id")
			if err != nil {
				return err
			}
			api, err := newAPI()
			if err != nil {
				return err
			}
			profile, err := api.GetUserProfile(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printData(profile)
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login <identifier> <password>",
		Short: "Authenticate by username or email (try admin/admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			res, err := api.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}

	registerCmd := &cobra.Command{
		Use:   "register <username> <email> <password>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPI()
			if err != nil {
				return err
			}
			user, err := api.Register(cmd.Context(), models.Registration{
				Username: args[0],
				Email:    args[1],
				Password: args[2],
			})
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"success": true, "user": user})
		},
	}

	toggleRunE := func(like bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			userID, err := atoiArg(args[0], "user id")
			if err != nil {
				return err
			}
			postID, err := atoiArg(args[1], "post id")
			if err != nil {
				return err
			}
			api, err := newAPI()
			if err != nil {
				return err
			}
			var active bool
			if like {
				active, err = api.ToggleLike(cmd.Context(), userID, postID)
			} else {
				active, err = api.ToggleFavorite(cmd.Context(), userID, postID)
			}
			if err != nil {
				return err
			}
			state, err := api.GetInteractionState(cmd.Context(), userID, postID)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"success": true, "active": active, "state": state})
		}
	}
	likeCmd := &cobra.Command{
		Use:   "like <user-id> <post-id>",
		Short: "Toggle a like",
		Args:  cobra.ExactArgs(2),
		RunE:  toggleRunE(true),
	}
	favoriteCmd := &cobra.Command{
		Use:   "favorite <user-id> <post-id>",
		Short: "Toggle a favorite",
		Args:  cobra.ExactArgs(2),
		RunE:  toggleRunE(false),
	}

	root.AddCommand(postsCmd, postCmd, createCmd, categoriesCmd, announcementsCmd,
		profileCmd, loginCmd, registerCmd, likeCmd, favoriteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
