package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/edmo-diareval/clients"
	cfg "github.com/maastricht-university/edmo-diareval/config"
	"github.com/maastricht-university/edmo-diareval/reference"
)

type Pipeline struct {
	cfg     *cfg.Root
	corpus  *reference.Corpus
	sources clients.TestSource
	log     logrus.FieldLogger
}

func NewPipeline(c *cfg.Root, corpus *reference.Corpus, sources clients.TestSource, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Pipeline{cfg: c, corpus: corpus, sources: sources, log: log}
}

func (p *Pipeline) tuning() Tuning {
	return Tuning{
		MergeEpsilon: p.cfg.Evaluation.MergeEpsilon,
		TieEpsilon:   p.cfg.Evaluation.TieEpsilon,
	}
}

// Evaluate scores one recording.
func (p *Pipeline) Evaluate(ctx context.Context, key string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.log.WithField("recording", key)

	rec, err := p.corpus.Recording(key)
	if err != nil {
		return nil, err
	}
	log.WithField("speakers", len(rec)).Debug("reference loaded")

	test0, test1, err := p.sources.Lookup(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("test intervals for %s: %w", key, err)
	}
	log.WithFields(logrus.Fields{
		"spk0_intervals": test0.Len(),
		"spk1_intervals": test1.Len(),
	}).Debug("test intervals loaded")

	r, err := BuildReport(key, rec, test0, test1, p.tuning())
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"ref_a":    r.ReferenceSpeakers[0],
		"ref_b":    r.ReferenceSpeakers[1],
		"macro_f1": r.MacroF1,
		"micro_f1": r.Micro.F1,
	}).Info("recording evaluated")
	return r, nil
}

type evalParam struct {
	idx     int
	ctx     context.Context
	key     string
	p       *Pipeline
	reports []*Report
	errs    []error
	wg      *sync.WaitGroup
}

// EvaluateAll scores every key on a bounded worker pool. Reports come back in
// key order; keys without test output are skipped, failures are collected
// into a *multierror.Error.
func (p *Pipeline) EvaluateAll(ctx context.Context, keys []string) ([]*Report, error) {
	workers := p.cfg.Evaluation.Workers
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPoolWithFunc(workers, func(args any) {
		param, ok := args.(*evalParam)
		if !ok {
			panic("evaluation pool args type error")
		}
		defer param.wg.Done()
		param.reports[param.idx], param.errs[param.idx] = param.p.Evaluate(param.ctx, param.key)
	})
	if err != nil {
		return nil, fmt.Errorf("create evaluation pool: %w", err)
	}
	defer pool.Release()

	reports := make([]*Report, len(keys))
	errs := make([]error, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		param := &evalParam{idx: i, ctx: ctx, key: key, p: p, reports: reports, errs: errs, wg: &wg}
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit %s: %w", key, err)
		}
	}
	wg.Wait()

	var result *multierror.Error
	out := make([]*Report, 0, len(keys))
	for i, key := range keys {
		switch {
		case errs[i] == nil:
			out = append(out, reports[i])
		case errors.Is(errs[i], clients.ErrNoSource):
			p.log.WithField("recording", key).Warn("no test output; skipped")
		default:
			result = multierror.Append(result, errs[i])
		}
	}
	return out, result.ErrorOrNil()
}
