package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cl "github.com/IldarReact/LifeSim-sub003/internal/cli"
	"github.com/IldarReact/LifeSim-sub003/internal/config"
	"github.com/IldarReact/LifeSim-sub003/internal/syncq"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "life",
		Short:        "LifeSim CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNewCmd(&apiBase),
		newGamesCmd(&apiBase),
		newUseCmd(),
		newStatusCmd(&apiBase),
		newNextCmd(&apiBase),
		newBizCmd(&apiBase),
		newLoanCmd(&apiBase),
		newStudyCmd(&apiBase),
		newVoteCmd(&apiBase),
		newPeersCmd(&apiBase),
		newSyncCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func activeGameID() (string, error) {
	sess, err := cl.LoadSession()
	if err != nil {
		return "", err
	}
	return sess.GameID, nil
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new playthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			client := newClient(apiBase)

			countries, err := client.CatalogCountries(ctx)
			if err != nil {
				return err
			}
			printInfo("Available countries:")
			for _, c := range countries {
				fmt.Printf("  %-6v %v\n", c["id"], c["name"])
			}

			name, err := promptRequired("Your name")
			if err != nil {
				return err
			}
			countryID, err := promptRequired("Country id")
			if err != nil {
				return err
			}

			out, err := client.CreateGame(ctx, name, countryID)
			if err != nil {
				return err
			}
			gameID, _ := out["id"].(string)
			if gameID == "" {
				return fmt.Errorf("server did not return a game id")
			}
			if err := cl.SaveSession(cl.Session{GameID: gameID, PlayerName: name, CountryID: countryID}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Game %s started. Good luck.", gameID))
			return nil
		},
	}
}

func newGamesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List saved games",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).ListGames(ctx)
			if err != nil {
				return err
			}
			renderGameList(out)
			return nil
		},
	}
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <game-id>",
		Short: "Switch the active game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.SaveSession(cl.Session{GameID: args[0]}); err != nil {
				return err
			}
			printSuccess("Active game switched.")
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).GetGame(ctx, gameID)
			if err != nil {
				return err
			}
			renderStatus(out)
			return nil
		},
	}
}

func newNextCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Advance one quarter",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Advance(ctx, gameID)
			if err != nil {
				if isNetworkErr(err) {
					if qerr := syncq.Push(syncq.Command{
						Method: "POST",
						Path:   "/v1/games/" + gameID + "/advance",
						Body:   map[string]any{},
					}); qerr == nil {
						printWarn("Server unreachable, turn queued. Run `life sync` later.")
						return nil
					}
				}
				return err
			}
			renderAdvance(out)
			return nil
		},
	}
}

func newBizCmd(apiBase *string) *cobra.Command {
	biz := &cobra.Command{
		Use:   "biz",
		Short: "Manage businesses",
	}

	biz.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List purchasable business templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			templates, err := newClient(apiBase).CatalogBusinesses(ctx)
			if err != nil {
				return err
			}
			renderBusinessTemplates(templates)
			return nil
		},
	})

	biz.AddCommand(&cobra.Command{
		Use:   "found <template-id> [name]",
		Short: "Found a new business",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).FoundBusiness(ctx, gameID, args[0], name)
			if err != nil {
				return err
			}
			printSuccess("Business founded.")
			renderJSON(out["business"])
			return nil
		},
	})

	biz.AddCommand(&cobra.Command{
		Use:   "preview <business-id>",
		Short: "Project the next quarter for a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).PreviewQuarter(ctx, gameID, args[0])
			if err != nil {
				return err
			}
			renderPreview(out)
			return nil
		},
	})

	biz.AddCommand(&cobra.Command{
		Use:   "price <business-id> <new-price>",
		Short: "Change the sale price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid price: %w", err)
			}
			return requestChange(cmd, apiBase, args[0], "price", map[string]any{"price": price})
		},
	})

	biz.AddCommand(&cobra.Command{
		Use:   "freeze <business-id>",
		Short: "Freeze operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return requestChange(cmd, apiBase, args[0], "freeze", map[string]any{})
		},
	})

	biz.AddCommand(&cobra.Command{
		Use:   "unfreeze <business-id>",
		Short: "Resume operations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return requestChange(cmd, apiBase, args[0], "unfreeze", map[string]any{})
		},
	})

	biz.AddCommand(&cobra.Command{
		Use:   "candidates",
		Short: "Show the current hiring pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Candidates(ctx, gameID)
			if err != nil {
				return err
			}
			renderJSON(out["candidates"])
			return nil
		},
	})

	return biz
}

func requestChange(cmd *cobra.Command, apiBase *string, businessID, changeType string, payload map[string]any) error {
	gameID, err := activeGameID()
	if err != nil {
		return err
	}
	ctx, cancel := cmdContext(cmd)
	defer cancel()
	out, err := newClient(apiBase).RequestChange(ctx, gameID, businessID, changeType, payload)
	if err != nil {
		return err
	}
	if prop, ok := out["proposal"].(map[string]any); ok && prop != nil {
		printWarn("Partner approval required. Proposal opened:")
		renderJSON(prop)
		return nil
	}
	printSuccess("Change applied.")
	return nil
}

func newLoanCmd(apiBase *string) *cobra.Command {
	loan := &cobra.Command{
		Use:   "loan",
		Short: "Manage loans",
	}

	loan.AddCommand(&cobra.Command{
		Use:   "take <type> <amount> <term-months>",
		Short: "Take a loan (consumer_credit, mortgage, student_loan)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			term, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid term: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).TakeLoan(ctx, gameID, args[0], args[0], amount, term)
			if err != nil {
				return err
			}
			printSuccess("Loan approved.")
			renderJSON(out["debt"])
			return nil
		},
	})

	loan.AddCommand(&cobra.Command{
		Use:   "pay <debt-id>",
		Short: "Make one scheduled payment now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).PayDebt(ctx, gameID, args[0])
			if err != nil {
				return err
			}
			printSuccess("Payment made.")
			renderJSON(out["debts"])
			return nil
		},
	})

	loan.AddCommand(&cobra.Command{
		Use:   "repay <debt-id> <amount>",
		Short: "Repay part or all of a loan early",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).RepayEarly(ctx, gameID, args[0], amount)
			if err != nil {
				return err
			}
			printSuccess("Early repayment applied.")
			renderJSON(out["debts"])
			return nil
		},
	})

	return loan
}

func newStudyCmd(apiBase *string) *cobra.Command {
	study := &cobra.Command{
		Use:   "study",
		Short: "Education",
	}

	study.AddCommand(&cobra.Command{
		Use:   "catalog",
		Short: "List available courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			courses, err := newClient(apiBase).CatalogEducation(ctx)
			if err != nil {
				return err
			}
			renderJSON(courses)
			return nil
		},
	})

	study.AddCommand(&cobra.Command{
		Use:   "enroll <course-id>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Enroll(ctx, gameID, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Enrolled. Paid %v, intelligence now %v.", out["paid"], out["intelligence"]))
			return nil
		},
	})

	return study
}

func newVoteCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <proposal-id> <yes|no>",
		Short: "Vote on a pending business proposal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			approve := strings.EqualFold(args[1], "yes") || strings.EqualFold(args[1], "y")
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Vote(ctx, gameID, args[0], approve)
			if err != nil {
				return err
			}
			printSuccess("Vote recorded.")
			renderJSON(out["proposal"])
			return nil
		},
	}
}

func newPeersCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "peers",
		Short: "List players following the active game",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := activeGameID()
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Peers(ctx, gameID)
			if err != nil {
				return err
			}
			peers, _ := out["peers"].([]any)
			if len(peers) == 0 {
				printInfo("No peers following this game.")
				return nil
			}
			for _, p := range peers {
				fmt.Printf("  %v\n", p)
			}
			return nil
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay commands queued while offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				printInfo("Queue is empty.")
				return nil
			}

			client := newClient(apiBase)
			var remaining []syncq.Command
			replayed := 0
			for i, qc := range commands {
				ctx, cancel := cmdContext(cmd)
				_, err := client.Do(ctx, qc.Method, qc.Path, qc.Body)
				cancel()
				if err != nil {
					printWarn(fmt.Sprintf("Replay stopped at command %d: %v", i+1, err))
					remaining = commands[i:]
					break
				}
				replayed++
			}
			if err := syncq.Save(remaining); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Replayed %d of %d queued commands.", replayed, len(commands)))
			return nil
		},
	}
}

func isNetworkErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "deadline exceeded")
}
