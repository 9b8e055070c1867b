package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/maastricht-university/edmo-diareval/config"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgPath string
	conf    *cfg.Root
	log     *logrus.Logger
}

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the edmo-eval command tree writing reports to out and
// logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: cfg.New(), log: logrus.New()}
	a.log.SetOutput(errOut)

	root := &cobra.Command{
		Use:           "edmo-eval",
		Short:         "Score diarization output against reference speaker segments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "Config file (default: config/$CONFIG_ENV/config.yaml if present)")
	pf.String("reference", "", "Reference corpus (.json or .yaml)")
	pf.String("format", "", "Report format: text, json or yaml")
	pf.String("out", "", "Persist reports under this directory")
	pf.String("log-level", "", "Log level")
	pf.Int("workers", 0, "Parallel recordings in batch mode")
	pf.Float64("merge-epsilon", 0, "Gap in seconds under which spans merge")
	pf.Float64("tie-epsilon", 0, "Macro-F1 difference treated as a tie")
	_ = pf.MarkHidden("merge-epsilon")
	_ = pf.MarkHidden("tie-epsilon")

	for key, flag := range map[string]string{
		"paths.reference":          "reference",
		"report.format":            "format",
		"paths.outputs":            "out",
		"log.level":                "log-level",
		"evaluation.workers":       "workers",
		"evaluation.merge_epsilon": "merge-epsilon",
		"evaluation.tie_epsilon":   "tie-epsilon",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newEvaluateCommand(a),
		newBatchCommand(a),
		newSpeakersCommand(a),
		newConfigCommand(a),
	)
	return root
}

func (a *app) load() error {
	conf, err := cfg.Load(a.v, a.cfgPath)
	if err != nil {
		return err
	}
	lvl, err := logrus.ParseLevel(conf.Log.Level)
	if err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	a.log.SetLevel(lvl)
	if conf.Log.Format == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	a.conf = conf
	return nil
}
