package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/BartekS5/tanamao-migrate/internal/config"
	"github.com/BartekS5/tanamao-migrate/internal/crosswalk"
	"github.com/BartekS5/tanamao-migrate/internal/etl"
	"github.com/BartekS5/tanamao-migrate/internal/geocode"
	"github.com/BartekS5/tanamao-migrate/internal/ledger"
	"github.com/BartekS5/tanamao-migrate/pkg/database"
	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

// session holds every connection a command needs.
type session struct {
	cfg     *config.Config
	profile *config.Profile
	legacy  *mongo.Client
	target  *mongo.Client
	redis   *redis.Client
	sqlDB   *sql.DB
}

func loadSettings(opts *MigrateOptions) (*config.Config, *config.Profile, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	profile, err := config.LoadProfile(opts.ProfileFile)
	if err != nil {
		return nil, nil, err
	}
	profile.OverrideBatchSize(opts.BatchSize)
	if err := logger.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, profile, nil
}

func openSession(opts *MigrateOptions) (*session, error) {
	cfg, profile, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, profile: profile}

	if s.legacy, err = database.ConnectMongo("legacy", cfg.OldDBURI); err != nil {
		s.Close()
		return nil, err
	}
	if s.target, err = database.ConnectMongo("target", cfg.NewDBURI); err != nil {
		s.Close()
		return nil, err
	}
	if cfg.RedisURL != "" {
		if s.redis, err = database.ConnectRedis(cfg.RedisURL); err != nil {
			s.Close()
			return nil, err
		}
	}
	if cfg.SQLConnString != "" {
		if s.sqlDB, err = database.ConnectSQL(cfg.SQLConnString); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) Close() {
	database.DisconnectMongo(s.legacy)
	database.DisconnectMongo(s.target)
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	logger.Close()
}

func (s *session) geocoder() *geocode.Client {
	var cache geocode.Cache = geocode.NewMemoryCache()
	if s.redis != nil {
		cache = geocode.NewRedisCache(s.redis, s.profile.Geocode.CacheTTL())
	}
	return geocode.NewClient(
		geocode.WithEndpoint(s.cfg.GeocoderURL),
		geocode.WithUserAgent(s.cfg.GeocoderUserAgent),
		geocode.WithAttempts(s.profile.Geocode.Attempts),
		geocode.WithHTTPClient(&http.Client{Timeout: s.profile.Geocode.RequestTimeout()}),
		geocode.WithCache(cache),
	)
}

func (s *session) runner(ctx context.Context) (*etl.Runner, error) {
	var recorder ledger.Recorder = ledger.Noop{}
	if s.sqlDB != nil {
		r, err := ledger.NewSQLRecorder(ctx, s.sqlDB)
		if err != nil {
			return nil, err
		}
		recorder = r
	}

	legacy := etl.NewMongoLegacy(s.legacy, s.cfg.OldDBName)
	target := etl.NewMongoTarget(s.target, s.cfg.NewDBName)
	runID := uuid.NewString()
	logger.Infof("Run %s: legacy=%s target=%s", runID, s.cfg.OldDBName, s.cfg.NewDBName)

	return &etl.Runner{
		Legacy:              legacy,
		Target:              target,
		Geocoder:            s.geocoder(),
		LegacyPaymethodRefs: crosswalk.NewCollectionSource(legacy.DB.Collection(etl.CollPaymethods), "code"),
		TargetPaymethodRefs: crosswalk.NewCollectionSource(target.DB.Collection(etl.CollPaymethods), "code"),
		Profile:             s.profile,
		Clock:               clock.WallClock,
		Ledger:              recorder,
		RunID:               runID,
	}, nil
}

// runMigration opens a session, runs step and prints its summaries.
func runMigration(cmd *cobra.Command, opts *MigrateOptions, step func(context.Context, *etl.Runner) ([]*etl.Stats, error)) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	r, err := s.runner(ctx)
	if err != nil {
		return err
	}

	stats, err := step(ctx, r)
	printSummary(cmd.OutOrStdout(), stats...)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("migration interrupted: %w", ctx.Err())
	}
	return nil
}

func single(fn func(*etl.Runner, context.Context) (*etl.Stats, error)) func(context.Context, *etl.Runner) ([]*etl.Stats, error) {
	return func(ctx context.Context, r *etl.Runner) ([]*etl.Stats, error) {
		stats, err := fn(r, ctx)
		if err != nil {
			return nil, err
		}
		return []*etl.Stats{stats}, nil
	}
}

func printSummary(w io.Writer, all ...*etl.Stats) {
	for _, s := range all {
		fmt.Fprintf(w, "%-12s migrated=%d updated=%d skipped=%d errors=%d total=%d",
			s.Entity, s.Migrated, s.Updated, s.Skipped, s.Errors, s.Total)
		keys := make([]string, 0, len(s.Extra))
		for k := range s.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, " %s=%d", k, s.Extra[k])
		}
		if len(s.Warnings) > 0 {
			fmt.Fprintf(w, " warnings=%d", len(s.Warnings))
		}
		fmt.Fprintln(w)
	}
}

// companyURI takes the uri from args or asks for it on stdin.
func companyURI(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		if uri := strings.TrimSpace(args[0]); uri != "" {
			return uri, nil
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), "Company uri: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read company uri: %w", err)
	}
	uri := strings.TrimSpace(line)
	if uri == "" {
		return "", errors.New("company uri is required")
	}
	return uri, nil
}
