// Command arsd bootstraps a governance node: it loads configuration
// and the risk profile, opens the state store, constructs the engine,
// restores persisted state and initializes the protocol.
package main

import (
	"context"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"

	"github.com/ars-protocol/ars-core/pkg/config"
	"github.com/ars-protocol/ars-core/pkg/crypto"
	"github.com/ars-protocol/ars-core/pkg/observability"
	"github.com/ars-protocol/ars-core/pkg/protocol"
	"github.com/ars-protocol/ars-core/pkg/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	profile, err := config.LoadProfile(cfg.ProfilesDir, cfg.Profile)
	if err != nil {
		logger.Warn("risk profile not loaded, using defaults", "profile", cfg.Profile, "error", err)
		profile = config.DefaultProfile()
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	obs, err := observability.New(ctx, &observability.Config{
		ServiceName:  "ars-core",
		Environment:  profile.Code,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   1.0,
		Enabled:      cfg.Telemetry,
		Insecure:     true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown(ctx) }()

	authority, err := loadAuthority(logger)
	if err != nil {
		return err
	}

	facility := crypto.NewVerificationFacility()
	engine, err := protocol.New(protocol.Config{
		Authority:       authority,
		VerifierProgram: crypto.ProgramID,
		Verifier:        facility,
		Profile:         profile,
		Logger:          logger,
		Observability:   obs,
		Store:           db,
	})
	if err != nil {
		return err
	}

	if err := engine.Restore(ctx); err != nil {
		return err
	}
	if err := engine.Initialize(ctx, protocol.Params{
		EpochDuration:   profile.Governance.EpochDurationSeconds,
		MintBurnCapBPS:  profile.Governance.MaxSupplyChangeBPS,
		VHRThresholdBPS: profile.Governance.VHRThresholdBPS,
	}); err != nil {
		return err
	}

	st := engine.State()
	logger.Info("node ready",
		"profile", profile.Code,
		"authority", hex.EncodeToString(st.Authority),
		"proposal_counter", st.ProposalCounter,
		"ledger_head", engine.Ledger().Head(),
	)
	return nil
}

// loadAuthority reads the protocol authority from ARS_AUTHORITY (hex
// public key) or generates an ephemeral one for local runs.
func loadAuthority(logger *slog.Logger) ([]byte, error) {
	if v := os.Getenv("ARS_AUTHORITY"); v != "" {
		authority, err := hex.DecodeString(v)
		if err != nil {
			return nil, err
		}
		return authority, nil
	}

	signer, err := crypto.NewEd25519Signer("authority")
	if err != nil {
		return nil, err
	}
	logger.Warn("ARS_AUTHORITY not set, generated ephemeral authority",
		"public_key", signer.PublicKeyHex(),
	)
	return signer.PublicKey(), nil
}

func logLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
