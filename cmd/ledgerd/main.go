// Command ledgerd runs the multi-token ledger engine behind the HTTP
// boundary of SPEC_FULL.md §4.H, wiring pkg/config, internal/pmem,
// internal/ledger and internal/httpapi together the way the teacher's
// walletserver/main.go wires its own config/service/controller/router
// quartet.
package main

import (
	"context"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"synnergy-multiledger/internal/entity"
	"synnergy-multiledger/internal/httpapi"
	"synnergy-multiledger/internal/ledger"
	"synnergy-multiledger/internal/pmem"
	"synnergy-multiledger/pkg/config"
	"synnergy-multiledger/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return utils.Wrap(err, "load config")
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return utils.Wrap(err, "parse log level")
	}
	logrus.SetLevel(level)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return utils.Wrap(err, "open log file")
		}
		logrus.SetOutput(f)
	}

	mgr, err := pmem.Open(cfg.Storage.WALPath, cfg.Storage.SnapshotPath)
	if err != nil {
		return utils.Wrap(err, "open persistent memory")
	}
	defer mgr.Close()

	genesis, err := genesisPrincipal(cfg.Ledger.Controllers)
	if err != nil {
		return utils.Wrap(err, "resolve genesis controller")
	}

	led, err := ledger.Open(mgr, genesis, nil)
	if err != nil {
		return utils.Wrap(err, "open ledger")
	}

	stopSnapshots := startPeriodicSnapshots(mgr, time.Duration(cfg.Storage.SnapshotInterval)*time.Millisecond)
	defer stopSnapshots()

	srv := &http.Server{Addr: cfg.HTTP.ListenAddr, Handler: httpapi.NewServer(led)}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.HTTP.ListenAddr).Info("ledgerd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return utils.Wrap(err, "serve")
	case <-sigCh:
		logrus.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// genesisPrincipal decodes the first configured controller as the ledger's
// bootstrap controller. An empty list means a fresh ledger starts with no
// genesis principal; the operator must add one via the engine's embedded
// API before any controller-only operation can succeed.
func genesisPrincipal(controllers []string) (entity.Principal, error) {
	if len(controllers) == 0 {
		return nil, nil
	}
	return decodeHexController(controllers[0])
}

func decodeHexController(s string) (entity.Principal, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return entity.Principal(b), nil
}

// startPeriodicSnapshots runs mgr.Snapshot on an interval derived from the
// configured snapshot_interval (treated, for this file-backed stand-in
// persistent memory, as a duration rather than an operation count), the
// same "coalesce the WAL periodically" role the spec's host runtime plays
// for a real paged store. It returns a function that stops the ticker.
func startPeriodicSnapshots(mgr *pmem.Manager, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := mgr.Snapshot(); err != nil {
					logrus.WithError(err).Warn("periodic snapshot failed")
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
