package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"cardclash/internal/anticheat"
	"cardclash/internal/combat"
	"cardclash/internal/config"
	"cardclash/internal/deck"
	"cardclash/internal/ledger"
	"cardclash/internal/ownership"
	"cardclash/internal/util"
)

type options struct {
	cfgDir    string
	player    string
	opponent  string
	out       string
	ownership string
	ledger    string
	playerID  string
	seed      int64
	n         int
	workers   int
	history   int
	validate  bool
	forge     bool
	saveLog   bool
}

func main() {
	var envCfg config.SimsvcEnv
	if err := config.ParseEnv(&envCfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var o options
	flag.StringVar(&o.cfgDir, "config", envCfg.ConfigDir, "config dir with rules.yaml and skills.yaml (empty: embedded)")
	flag.StringVar(&o.player, "player", "assets/decks/starter.yaml", "player deck")
	flag.StringVar(&o.opponent, "opponent", "assets/decks/rival.yaml", "opponent deck")
	flag.StringVar(&o.out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.StringVar(&o.ownership, "ownership", envCfg.OwnershipPath, "player library export; enables card validation")
	flag.StringVar(&o.ledger, "ledger", envCfg.LedgerPath, "sqlite battle ledger")
	flag.StringVar(&o.playerID, "id", envCfg.PlayerID, "player id for ownership and ledger")
	flag.Int64Var(&o.seed, "seed", 0, "seed (0: derive from clock)")
	flag.IntVar(&o.n, "n", 1, "number of simulations")
	flag.IntVar(&o.workers, "workers", envCfg.Workers, "batch workers")
	flag.IntVar(&o.history, "history", 0, "print the last N ledger entries and exit")
	flag.BoolVar(&o.validate, "validate", true, "reject player cards that fail validation (needs -ownership)")
	flag.BoolVar(&o.forge, "forge", false, "forge stats for player cards that list none (needs -ownership)")
	flag.BoolVar(&o.saveLog, "log", true, "keep the battle log when n==1")
	flag.Parse()

	logger := newLogger(envCfg.LogDev)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, logger); err != nil {
		logger.Fatal("simsvc failed", zap.Error(err))
	}
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func run(ctx context.Context, o options, log *zap.Logger) error {
	var store *ledger.Store
	if o.ledger != "" {
		s, err := ledger.Open(o.ledger, log.Named("ledger"))
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}
	if o.history > 0 {
		if store == nil {
			return errors.New("-history needs -ledger")
		}
		return printHistory(ctx, store, o.playerID, o.history)
	}

	eng, err := loadEngine(o.cfgDir)
	if err != nil {
		return err
	}
	in, err := loadInput(ctx, eng, o, log)
	if err != nil {
		return err
	}

	if o.n <= 1 {
		return runSingle(ctx, eng, in, o, store, log)
	}
	sum, err := runBatch(ctx, eng, in, o.seed, o.n, o.workers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.out, combat.MarshalPretty(sum), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	log.Info("batch finished",
		zap.Int("runs", sum.Runs),
		zap.Float64("win_rate", sum.WinRate),
		zap.Float64("draw_rate", sum.DrawRate),
		zap.String("out", filepath.Base(o.out)))
	return nil
}

func loadEngine(dir string) (*combat.Engine, error) {
	var (
		rules  *config.RulesConfig
		skills *config.SkillsConfig
		err    error
	)
	if dir == "" {
		rules, skills, err = config.LoadEmbedded()
	} else {
		rules, skills, err = config.LoadAll(dir)
	}
	if err != nil {
		return nil, err
	}
	return combat.NewEngine(rules, skills)
}

func loadInput(ctx context.Context, eng *combat.Engine, o options, log *zap.Logger) (combat.SimInput, error) {
	pd, err := deck.LoadFile(o.player)
	if err != nil {
		return combat.SimInput{}, err
	}
	od, err := deck.LoadFile(o.opponent)
	if err != nil {
		return combat.SimInput{}, err
	}

	if o.ownership != "" {
		src, err := ownership.LoadFile(o.ownership)
		if err != nil {
			return combat.SimInput{}, err
		}
		lib, err := src.Library(ctx, o.playerID)
		if err != nil {
			return combat.SimInput{}, err
		}
		if o.forge {
			if err := pd.ForgeMissing(lib, eng.Rules()); err != nil {
				return combat.SimInput{}, err
			}
		}
		if o.validate {
			v := anticheat.New(eng.Rules())
			for _, c := range pd.Cards() {
				if err := v.Check(c, lib); err != nil {
					return combat.SimInput{}, err
				}
			}
			log.Debug("player deck validated", zap.String("player_id", o.playerID), zap.Int("cards", len(pd.Cards())))
		}
	} else if o.forge {
		return combat.SimInput{}, errors.New("-forge needs -ownership")
	}

	var in combat.SimInput
	if in.Player, err = pd.Roster(eng.Skills(), eng.Rules()); err != nil {
		return combat.SimInput{}, fmt.Errorf("player deck: %w", err)
	}
	if in.Opponent, err = od.Roster(eng.Skills(), eng.Rules()); err != nil {
		return combat.SimInput{}, fmt.Errorf("opponent deck: %w", err)
	}
	if err := in.Validate(); err != nil {
		return combat.SimInput{}, err
	}
	return in, nil
}

func runSingle(ctx context.Context, eng *combat.Engine, in combat.SimInput, o options, store *ledger.Store, log *zap.Logger) error {
	if o.seed != 0 {
		s := o.seed
		in.Seed = &s
	}
	res := eng.Simulate(in)

	var battleID string
	if store != nil {
		id, err := store.Save(ctx, o.playerID, res)
		if err != nil {
			return err
		}
		battleID = id
	}
	if !o.saveLog {
		res.Log = nil
	}
	if err := os.WriteFile(o.out, combat.MarshalPretty(res), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	log.Info("single simsvc finished",
		zap.String("winner", string(res.Winner)),
		zap.Int("player_hp", res.PlayerHP),
		zap.Int("opponent_hp", res.OpponentHP),
		zap.Int("duration_ms", res.DurationMS),
		zap.Int64("seed", res.Seed),
		zap.String("battle_id", battleID),
		zap.String("out", o.out))
	return nil
}

func printHistory(ctx context.Context, store *ledger.Store, playerID string, limit int) error {
	recs, err := store.Recent(ctx, playerID, limit)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%s  %s  %-8s  %5d - %-5d  %6dms  seed=%d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.BattleID, r.Winner,
			r.PlayerHP, r.OpponentHP, r.DurationMS, r.Seed)
	}
	return nil
}

func batchSeed(seed int64) int64 {
	if seed == 0 {
		return util.ClockSeed()
	}
	return seed
}
