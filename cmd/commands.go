package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thanos-io/objstore/providers/filesystem"
	"go.uber.org/zap"

	"github.com/pagekv/pagekv-go/internal/logger"
	"github.com/pagekv/pagekv-go/pagekv"
	"github.com/pagekv/pagekv-go/pagekv/key"
	"github.com/pagekv/pagekv-go/pagekv/store"
)

var errNoSnapshot = errors.New("no snapshot found; run 'pagekv seed' first")

// Owner is the value of the flat owners map.
type Owner struct {
	Name  string `json:"name"`
	Items int    `json:"items"`
}

// Holding is the value of the holdings map, keyed by (owner, item id).
type Holding struct {
	Amount uint64 `json:"amount"`
}

type ownersLimit struct{}

func (ownersLimit) MaxLimit() uint32 { return 30 }

type holdingsLimit struct{}

func (holdingsLimit) MaxLimit() uint32 { return 100 }

type app struct {
	cfg       Config
	log       *zap.Logger
	slog      *slog.Logger
	snapshots *store.Snapshots
	owners    pagekv.Map[string, Owner]
	holdings  pagekv.PairMap[string, uint32, Holding]
}

func newRootCommand() *cobra.Command {
	var (
		cfgFile string
		a       app
		v       = viper.New()
	)

	root := &cobra.Command{
		Use:           "pagekv",
		Short:         "Seed, snapshot and page through demo maps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			return a.init(cfg)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync(a.log)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("dir", "./pagekv-data", "directory snapshots are stored in")
	flags.String("compression", "snappy", "none, snappy, zlib, lz4 or zstd")
	flags.Int("cache-size", 1000, "number of store reads kept in the read cache")
	flags.String("log-level", "info", "debug, info, warn or error")
	if err := bindFlags(v, root); err != nil {
		panic(err)
	}

	root.AddCommand(
		newSeedCommand(&a),
		newPageCommand(&a),
		newPrefixPageCommand(&a),
		newSnapshotsCommand(&a),
	)
	return root
}

func (a *app) init(cfg Config) error {
	codec, err := store.ParseCodec(cfg.Compression)
	if err != nil {
		return err
	}
	if a.log, err = logger.New(cfg.LogLevel); err != nil {
		return err
	}
	if a.slog, err = logger.Slog(cfg.LogLevel); err != nil {
		return err
	}

	bucket, err := filesystem.NewBucket(cfg.Dir)
	if err != nil {
		return fmt.Errorf("while opening bucket at %q: %w", cfg.Dir, err)
	}

	opts := pagekv.MapOptions{Compression: codec}
	a.cfg = cfg
	a.snapshots = store.NewSnapshots(bucket, store.SnapshotOptions{Codec: codec, Log: a.slog})
	a.owners = pagekv.NewMapWithOptions[string, Owner]("owners", key.String{}, opts)
	a.holdings = pagekv.NewPairMapWithOptions[string, uint32, Holding]("holdings", key.String{}, key.Uint32{}, opts)
	return nil
}

// open loads the latest snapshot behind a read cache.
func (a *app) open(ctx context.Context) (*store.Cached, error) {
	latest, err := a.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	id, ok := latest.Get()
	if !ok {
		return nil, errNoSnapshot
	}
	mem, err := a.snapshots.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	a.log.Debug("opened snapshot", zap.Stringer("id", id), zap.Int("entries", mem.Len()))
	return store.NewCached(mem, store.CacheOptions{Capacity: a.cfg.CacheSize, Log: a.slog})
}

func ownerName(i int) string {
	return fmt.Sprintf("user%03d", i)
}

func newSeedCommand(a *app) *cobra.Command {
	var users, items int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write demo owners and holdings and save them as a new snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mem := store.NewMemory()
			for u := 1; u <= users; u++ {
				name := ownerName(u)
				if err := a.owners.Save(mem, name, Owner{Name: name, Items: items}); err != nil {
					return err
				}
				for i := 1; i <= items; i++ {
					k := key.NewPair(name, uint32(i*10))
					if err := a.holdings.Save(mem, k, Holding{Amount: uint64(u * i)}); err != nil {
						return err
					}
				}
			}

			id, err := a.snapshots.Save(cmd.Context(), mem)
			if err != nil {
				return err
			}
			a.log.Info("seeded snapshot",
				zap.Stringer("id", id),
				zap.Int("owners", users),
				zap.Int("holdings", users*items))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return err
		},
	}
	cmd.Flags().IntVar(&users, "users", 10, "number of owners")
	cmd.Flags().IntVar(&items, "items", 5, "number of holdings per owner")
	return cmd
}

func newPageCommand(a *app) *cobra.Command {
	var (
		query      string
		startAfter string
		limit      uint32
	)

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Print one page of owners",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p pagekv.Page[ownersLimit, string]
			if err := decodeQuery(query, &p); err != nil {
				return err
			}
			if cmd.Flags().Changed("start-after") {
				p.StartAfter = mo.Some(startAfter)
			}
			if cmd.Flags().Changed("limit") {
				p.Limit = mo.Some(limit)
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := pagekv.Paginate(s, p, a.owners, func(_ string, o Owner) Owner { return o })
			if err != nil {
				return err
			}
			a.log.Debug("paged owners", zap.Int("qty", res.Qty), zap.Bool("more", res.More))
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", `JSON page request, e.g. {"start_after":"user002","limit":5}`)
	cmd.Flags().StringVar(&startAfter, "start-after", "", "owner to start after")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "page size, capped at 30")
	return cmd
}

func newPrefixPageCommand(a *app) *cobra.Command {
	var (
		query      string
		user       string
		startAfter uint32
		limit      uint32
	)

	cmd := &cobra.Command{
		Use:   "prefix-page",
		Short: "Print one page of the holdings of one owner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p pagekv.PrefixPage[holdingsLimit, string, uint32]
			if err := decodeQuery(query, &p); err != nil {
				return err
			}
			if cmd.Flags().Changed("user") {
				p.Prefix = user
			}
			if p.Prefix == "" {
				return errors.New("an owner is required; pass --user or a query with a prefix")
			}
			if cmd.Flags().Changed("start-after") {
				p.StartAfter = mo.Some(startAfter)
			}
			if cmd.Flags().Changed("limit") {
				p.Limit = mo.Some(limit)
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := pagekv.PaginatePrefix(s, p, a.holdings, func(_ uint32, h Holding) uint64 {
				return h.Amount
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", `JSON page request, e.g. {"prefix":"user001","limit":2}`)
	cmd.Flags().StringVar(&user, "user", "", "owner whose holdings are listed")
	cmd.Flags().Uint32Var(&startAfter, "start-after", 0, "item id to start after")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "page size, capped at 100")
	return cmd
}

func newSnapshotsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List saved snapshots, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := a.snapshots.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				taken := time.UnixMilli(int64(id.Time())).UTC().Format(time.RFC3339)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, taken); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func decodeQuery(query string, dst any) error {
	if query == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(query), dst); err != nil {
		return fmt.Errorf("while decoding query: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
