package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/memory"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

type store interface {
	domain.HotelRepository
	domain.BookingRepository
}

type importer interface {
	ImportBooking(ctx context.Context, record map[string]any) (domain.Booking, error)
}

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Str("storage", cfg.StorageDriver).
		Msg("seeder starting")

	records, err := readRecords(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}

	var repo store
	switch cfg.StorageDriver {
	case shared.DriverMemory:
		// dry run: exercises mapping and validation only
		repo = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		repo = mysqlrepo.New(db)
	}

	var lock domain.NameLock
	if cfg.NameLockEnabled() {
		nl := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.NameLockTTL)
		defer nl.Close()
		lock = nl
	}

	hotels := app.NewHotelService(repo, lock)
	imp := app.NewImportService(app.NewBookingService(hotels, repo))

	created, failed := seed(ctx, imp, records, cfg.SeedWorkers)
	log.Info().Int64("created", created).Int64("failed", failed).Msg("seeding completed")
	if failed > 0 {
		os.Exit(1)
	}
}

// readRecords decodes a JSON array of booking objects. Numbers are kept as
// json.Number so prices are not rounded through float64.
func readRecords(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var out []map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return out, nil
}

// seed imports records with at most workers in flight and returns the
// created/failed totals.
func seed(ctx context.Context, imp importer, records []map[string]any, workers int) (created, failed int64) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg        sync.WaitGroup
		nOK, nBad atomic.Int64
	)

	for i, rec := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Int("remaining", len(records)-i).Msg("seeding interrupted")
			nBad.Add(int64(len(records) - i))
			break
		}

		wg.Add(1)
		go func(idx int, rec map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			b, err := imp.ImportBooking(ctx, rec)
			if err != nil {
				nBad.Add(1)
				log.Warn().Int("record", idx).Err(err).Msg("import failed")
				return
			}
			nOK.Add(1)
			log.Debug().Int("record", idx).Int64("booking", b.ID).Int64("hotel", b.HotelID()).Msg("import ok")
		}(i, rec)
	}

	wg.Wait()
	return nOK.Load(), nBad.Load()
}
