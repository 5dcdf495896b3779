// Command-line admin tool for the Jewel content-safety engine: classify
// text, scan transcripts, and read the moderation ledgers, against the
// same database the service uses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jewel-voice/jewel/safety/cachestore"
	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/countstore"
	"github.com/jewel-voice/jewel/safety/engine"
	"github.com/jewel-voice/jewel/safety/notify"
	"github.com/jewel-voice/jewel/safety/store"
	"github.com/jewel-voice/jewel/util/cliutil"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "jewelmod",
		Usage:   "administer the jewel content-safety engine",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database connection string (sqlite:// or postgres://)",
			Value:   "sqlite://data/jewelmod/safety.sqlite",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection for violation counters and status cache (optional)",
			EnvVars: []string{"JEWELMOD_REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "slack webhook for emergency notifications (optional)",
			EnvVars: []string{"JEWELMOD_SLACK_WEBHOOK_URL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			EnvVars: []string{"JEWELMOD_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			EnvVars: []string{"JEWELMOD_LOG_LEVEL"},
		},
	}

	app.Commands = []*cli.Command{
		cmdCheck,
		cmdDetect,
		cmdGate,
		cmdViolations,
		cmdEmergencies,
		cmdFlagged,
	}

	return app.Run(args)
}

func setupEngine(cctx *cli.Context) (*engine.Engine, error) {
	logger, err := cliutil.SetupSlog(cctx.String("log-format"), cctx.String("log-level"))
	if err != nil {
		return nil, err
	}

	db, err := cliutil.SetupDatabase(cctx.String("database-url"), 10)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	st, err := store.NewGormStore(db)
	if err != nil {
		return nil, err
	}

	var counters countstore.ViolationCounter
	var cache cachestore.StatusCache
	if redisURL := cctx.String("redis-url"); redisURL != "" {
		counters, err = countstore.NewRedisViolationCounter(redisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		rcache, err := cachestore.NewRedisStatusCache(redisURL, 5*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		cache = rcache
	} else {
		counters = countstore.NewMemViolationCounter()
		cache = cachestore.NewMemStatusCache(1000, 5*time.Minute)
	}

	return &engine.Engine{
		Logger:   logger,
		Catalog:  catalog.Default(),
		Store:    st,
		Counters: counters,
		Cache:    cache,
	}, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var cmdCheck = &cli.Command{
	Name:      "check",
	Usage:     "classify a piece of text",
	ArgsUsage: "<text>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "user",
			Usage: "identity to attribute the content to",
		},
		&cli.StringFlag{
			Name:  "ip",
			Usage: "source address to attribute the content to",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() < 1 {
			return fmt.Errorf("expected text argument")
		}
		eng, err := setupEngine(cctx)
		if err != nil {
			return err
		}
		res := eng.CheckContent(context.Background(), cctx.Args().First(), cctx.String("user"), cctx.String("ip"))
		return printJSON(res)
	},
}

var cmdDetect = &cli.Command{
	Name:      "detect",
	Usage:     "scan a transcript (and optional video context) for distress",
	ArgsUsage: "<transcript>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "video-context",
			Usage: "free-text tag summary from the vision pipeline",
		},
		&cli.StringFlag{
			Name:  "user",
			Usage: "identity the transcript belongs to",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() < 1 {
			return fmt.Errorf("expected transcript argument")
		}
		eng, err := setupEngine(cctx)
		if err != nil {
			return err
		}
		ctx := context.Background()
		detected, evt := eng.DetectAbuse(ctx, cctx.Args().First(), cctx.String("video-context"), cctx.String("user"))
		if !detected {
			fmt.Println("no emergency detected")
			return nil
		}
		if hook := cctx.String("slack-webhook-url"); hook != "" {
			notifier := notify.SlackNotifier{SlackWebhookURL: hook, Store: eng.Store}
			if err := notifier.SendEmergency(ctx, evt); err != nil {
				eng.Logger.Error("emergency notification failed", "err", err, "event", evt.ID)
			}
		}
		return printJSON(evt)
	},
}

var cmdGate = &cli.Command{
	Name:      "gate",
	Usage:     "check whether an identity is currently blocked",
	ArgsUsage: "<user>",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() < 1 {
			return fmt.Errorf("expected user argument")
		}
		eng, err := setupEngine(cctx)
		if err != nil {
			return err
		}
		blocked, msg, err := eng.IsAccountFlagged(context.Background(), cctx.Args().First())
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"blocked": blocked, "message": msg})
	},
}

var cmdViolations = &cli.Command{
	Name:  "violations",
	Usage: "list violation ledger entries, newest first",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "user",
			Usage: "limit to a single identity",
		},
		&cli.IntFlag{
			Name:  "limit",
			Value: 50,
		},
	},
	Action: func(cctx *cli.Context) error {
		eng, err := setupEngine(cctx)
		if err != nil {
			return err
		}
		recs, err := eng.GetViolations(context.Background(), cctx.String("user"), cctx.Int("limit"))
		if err != nil {
			return err
		}
		return printJSON(recs)
	},
}

var cmdEmergencies = &cli.Command{
	Name:  "emergencies",
	Usage: "list emergency events, newest first",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Value: 50,
		},
	},
	Action: func(cctx *cli.Context) error {
		eng, err := setupEngine(cctx)
		if err != nil {
			return err
		}
		evts, err := eng.GetEmergencyEvents(context.Background(), cctx.Int("limit"))
		if err != nil {
			return err
		}
		return printJSON(evts)
	},
}

var cmdFlagged = &cli.Command{
	Name:  "flagged",
	Usage: "list flagged and banned accounts",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Value: 50,
		},
	},
	Action: func(cctx *cli.Context) error {
		eng, err := setupEngine(cctx)
		if err != nil {
			return err
		}
		accts, err := eng.GetFlaggedAccounts(context.Background(), cctx.Int("limit"))
		if err != nil {
			return err
		}
		return printJSON(accts)
	},
}
