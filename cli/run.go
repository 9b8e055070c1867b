package cli

import (
	"github.com/spf13/cobra"

	"github.com/maastricht-university/edmo-diareval/clients"
	cfg "github.com/maastricht-university/edmo-diareval/config"
	"github.com/maastricht-university/edmo-diareval/orchestrator"
	"github.com/maastricht-university/edmo-diareval/reference"
)

// sourceFlags select where test intervals come from.
type sourceFlags struct {
	spk0, spk1     string
	testsDir       string
	diarizationURL string
	cacheDir       string
}

func (f *sourceFlags) register(cmd *cobra.Command, withFiles bool) {
	if withFiles {
		cmd.Flags().StringVar(&f.spk0, "spk0", "", "Timestamp listing of test speaker 0")
		cmd.Flags().StringVar(&f.spk1, "spk1", "", "Timestamp listing of test speaker 1")
	}
	cmd.Flags().StringVar(&f.testsDir, "tests-dir", "", "Search spk0.txt/spk1.txt under this directory (default paths.tests)")
	cmd.Flags().StringVar(&f.diarizationURL, "diarization-url", "", "Diarize paths.audio/<key> with this service instead of reading listings")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "Keep diarization results as listings under this directory")
}

func (a *app) corpus() (*reference.Corpus, error) {
	return reference.LoadFile(a.conf.Paths.Reference,
		reference.WithMergeEpsilon(a.conf.Evaluation.MergeEpsilon))
}

func (a *app) source(key string, f sourceFlags) clients.TestSource {
	eps := a.conf.Evaluation.MergeEpsilon
	if f.spk0 != "" || f.spk1 != "" {
		return &clients.FileSource{
			Files:        map[string]clients.FilePair{key: {Speaker0: f.spk0, Speaker1: f.spk1}},
			MergeEpsilon: eps,
		}
	}
	url := f.diarizationURL
	if url == "" {
		url = a.conf.Services.Diarization.URL
	}
	if url != "" {
		return &clients.DiarizationSource{
			HTTP:         clients.NewHTTP(cfg.DurSeconds(a.conf.Services.Diarization.TimeoutSec)),
			URL:          url,
			AudioDir:     a.conf.Paths.Audio,
			MergeEpsilon: eps,
			CacheDir:     f.cacheDir,
		}
	}
	dir := f.testsDir
	if dir == "" {
		dir = a.conf.Paths.Tests
	}
	return &clients.DirSource{Root: dir, MergeEpsilon: eps}
}

func (a *app) pipeline(key string, f sourceFlags) (*orchestrator.Pipeline, *reference.Corpus, error) {
	corpus, err := a.corpus()
	if err != nil {
		return nil, nil, err
	}
	a.log.WithField("recordings", corpus.Len()).Debug("reference corpus loaded")
	return orchestrator.NewPipeline(a.conf, corpus, a.source(key, f), a.log), corpus, nil
}

func (a *app) persist(reports []*orchestrator.Report) error {
	if a.conf.Paths.Outputs == "" || len(reports) == 0 {
		return nil
	}
	dir, err := orchestrator.Persist(a.conf.Paths.Outputs, reports)
	if err != nil {
		return err
	}
	a.log.WithField("dir", dir).Info("reports written")
	return nil
}
