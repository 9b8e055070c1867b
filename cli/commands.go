package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/edmo-diareval/orchestrator"
	"github.com/maastricht-university/edmo-diareval/reference"
)

func newEvaluateCommand(a *app) *cobra.Command {
	var sf sourceFlags
	cmd := &cobra.Command{
		Use:   "evaluate <recording-key>",
		Short: "Evaluate one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			p, _, err := a.pipeline(key, sf)
			if err != nil {
				return err
			}
			r, err := p.Evaluate(cmd.Context(), key)
			if err != nil {
				return err
			}
			if err := a.persist([]*orchestrator.Report{r}); err != nil {
				return err
			}
			if a.conf.Report.Format == "text" {
				return orchestrator.WriteText(cmd.OutOrStdout(), r)
			}
			return orchestrator.Encode(cmd.OutOrStdout(), a.conf.Report.Format, r)
		},
	}
	sf.register(cmd, true)
	return cmd
}

func newBatchCommand(a *app) *cobra.Command {
	var (
		sf   sourceFlags
		keys []string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate every recording of the reference corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, corpus, err := a.pipeline("", sf)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				keys = corpus.Keys()
			}
			reports, evalErr := p.EvaluateAll(cmd.Context(), keys)
			if err := a.persist(reports); err != nil {
				return err
			}
			summary := orchestrator.Summarize(reports)

			out := cmd.OutOrStdout()
			if a.conf.Report.Format == "text" {
				for _, r := range reports {
					if err := orchestrator.WriteText(out, r); err != nil {
						return err
					}
					fmt.Fprintln(out)
				}
				if err := orchestrator.WriteSummaryText(out, summary); err != nil {
					return err
				}
			} else {
				doc := struct {
					Reports []*orchestrator.Report `json:"reports" yaml:"reports"`
					Summary orchestrator.Summary   `json:"summary" yaml:"summary"`
				}{Reports: reports, Summary: summary}
				if err := orchestrator.Encode(out, a.conf.Report.Format, doc); err != nil {
					return err
				}
			}
			return evalErr
		},
	}
	sf.register(cmd, false)
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Only evaluate these recording keys")
	return cmd
}

func newSpeakersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "speakers <recording-key>",
		Short: "List reference speakers by speaking time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := a.corpus()
			if err != nil {
				return err
			}
			rec, err := corpus.Recording(args[0])
			if err != nil {
				return err
			}
			ranked := reference.Rank(rec)
			if a.conf.Report.Format != "text" {
				return orchestrator.Encode(cmd.OutOrStdout(), a.conf.Report.Format, ranked)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SPEAKER\tSECONDS\tINTERVALS")
			for _, sd := range ranked {
				fmt.Fprintf(tw, "%s\t%.2f\t%d\n", sd.Label, sd.Duration, rec[sd.Label].Len())
			}
			return tw.Flush()
		},
	}
}

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return orchestrator.Encode(cmd.OutOrStdout(), "yaml", a.conf)
		},
	}
}
