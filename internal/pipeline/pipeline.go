// Package pipeline runs a batch of documents through classification and
// extraction on a bounded worker pool, then reconciles the collected facts.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/revipro-dev/revipro/internal/classify"
	"github.com/revipro-dev/revipro/internal/extract"
	"github.com/revipro-dev/revipro/internal/logging"
	"github.com/revipro-dev/revipro/internal/model"
	"github.com/revipro-dev/revipro/internal/reconcile"
)

// Input is one document of a batch.
type Input interface {
	Name() string
	Load(ctx context.Context) (model.RawDocument, error)
}

// Options configures a Pipeline.
type Options struct {
	Workers         int
	DocumentTimeout time.Duration
	Extract         extract.Options
	Reconcile       reconcile.Options
	// Accounts is consulted by the plausibility checks; nil skips the account check.
	Accounts reconcile.AccountChecker
	Log      *logrus.Logger
}

// DefaultOptions returns 4 workers with a 30s per-document timeout.
func DefaultOptions() Options {
	return Options{
		Workers:         4,
		DocumentTimeout: 30 * time.Second,
		Extract:         extract.DefaultOptions(),
		Reconcile:       reconcile.DefaultOptions(),
	}
}

// Pipeline holds the classifier and engine for repeated batches. It keeps
// no state between calls to Analyze.
type Pipeline struct {
	opts       Options
	classifier *classify.Classifier
	engine     *reconcile.Engine
	log        *logrus.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DocumentTimeout <= 0 {
		opts.DocumentTimeout = DefaultOptions().DocumentTimeout
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{
		opts:       opts,
		classifier: classify.New(),
		engine:     reconcile.NewEngine(opts.Reconcile),
		log:        log,
	}
}

// Analyze is shorthand for New(opts).Analyze(ctx, inputs).
func Analyze(ctx context.Context, inputs []Input, opts Options) (model.Analysis, error) {
	return New(opts).Analyze(ctx, inputs)
}

// result is what one document contributes to the batch.
type result struct {
	summary model.DocumentSummary
	tax     []model.TaxFact
	ledger  []model.LedgerFact
	sheets  []model.BalanceSheetFact
}

// Analyze processes every input and reconciles the facts. The only error
// is cancellation of ctx; document failures are reported as dropped.
func (p *Pipeline) Analyze(ctx context.Context, inputs []Input) (model.Analysis, error) {
	runID := uuid.NewString()
	log := p.log.WithField("run_id", runID)
	log.WithField("documents", len(inputs)).Info("analysis started")

	results := make([]result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		i, in := i, in
		g.Go(func() error {
			results[i] = p.process(gctx, in, log)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		log.WithError(err).Warn("analysis cancelled")
		return model.Analysis{}, err
	}

	analysis := model.Analysis{RunID: runID}
	var (
		tax    []model.TaxFact
		ledger []model.LedgerFact
		sheets []model.BalanceSheetFact
	)
	for _, r := range results {
		analysis.Documents = append(analysis.Documents, r.summary)
		tax = append(tax, r.tax...)
		ledger = append(ledger, r.ledger...)
		sheets = append(sheets, r.sheets...)
	}

	analysis.Results = p.engine.Run(tax, ledger, sheets)
	analysis.Findings = reconcile.Validate(tax, ledger, p.opts.Accounts)

	for _, res := range analysis.Results {
		log.WithFields(logrus.Fields{
			"rule":   res.Rule.ID,
			"status": res.Status,
		}).Info("rule evaluated")
	}
	for _, f := range analysis.Findings {
		log.WithField("file", f.Source).Warn(f.Description)
	}
	return analysis, nil
}

// process runs one document under its own deadline. A document that
// overruns is dropped even if its extractor is still working.
func (p *Pipeline) process(ctx context.Context, in Input, log *logrus.Entry) result {
	log = log.WithField("file", in.Name())
	dctx, cancel := context.WithTimeout(ctx, p.opts.DocumentTimeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		done <- p.extract(dctx, in)
	}()

	var r result
	select {
	case r = <-done:
	case <-dctx.Done():
		r = dropped(in.Name(), dctx.Err())
	}

	entry := log.WithFields(logrus.Fields{
		"category": r.summary.Category,
		"status":   r.summary.Status,
		"facts":    r.summary.Facts,
	})
	if r.summary.Status == model.DocumentDropped {
		entry.WithField("reason", r.summary.Reason).Warn("document dropped")
	} else {
		entry.Debug("document processed")
	}
	return r
}

func dropped(name string, err error) result {
	return result{summary: model.DocumentSummary{
		Filename: name,
		Category: model.CategoryUnknown,
		Status:   model.DocumentDropped,
		Reason:   err.Error(),
	}}
}

func (p *Pipeline) extract(ctx context.Context, in Input) result {
	doc, err := in.Load(ctx)
	if err != nil {
		return dropped(in.Name(), err)
	}
	if doc.Filename == "" {
		doc.Filename = in.Name()
	}

	cat := p.classifier.Classify(doc.Text(), doc.Filename)
	r := result{summary: model.DocumentSummary{
		Filename: doc.Filename,
		Category: cat,
		Status:   model.DocumentExtracted,
	}}
	opts := p.opts.Extract

	switch {
	case cat.IsTaxStatement():
		fact := extract.TaxStatement(doc, cat, opts)
		r.tax = append(r.tax, fact)
		if fact.Found {
			r.summary.Facts = 1
		}
	case cat == model.CategoryLedger:
		if fact, ok := extract.Ledger(doc, opts); ok {
			r.ledger = append(r.ledger, fact)
			r.summary.Facts = 1
		}
	case cat == model.CategoryCombinedLedger:
		r.ledger = extract.CombinedLedger(doc, opts)
		r.summary.Facts = len(r.ledger)
	case cat == model.CategoryBalanceSheetExcerpt:
		if fact, ok := extract.BalanceSheet(doc, opts); ok {
			r.sheets = append(r.sheets, fact)
			r.summary.Facts = 1
		}
	case cat == model.CategoryIncomeStatementExcerpt:
		// Recognized and counted, but no rule consumes it.
	default:
		r.summary.Status = model.DocumentIgnored
		r.summary.Reason = "no reconciliation rule for " + string(cat)
	}
	return r
}
