// Package pythoncheck inspects the argument lists of the calls in a python
// file and reports the calls whose arguments do not fit the parameters of the
// callee.
package pythoncheck

import (
	"sort"

	"github.com/dgraph-io/ristretto"
	spooky "github.com/dgryski/go-spooky"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonparser"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonstatic"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontreesitter"
	"github.com/kiteco/pycall/kite-golib/errors"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// Diagnostic is a problem found at a call site. Line and Column are zero-based
// and give the position of Begin.
type Diagnostic struct {
	Kind    pythoncall.ProblemKind
	Begin   int
	End     int
	Line    int
	Column  int
	Message string
}

// Report is the result of checking one source file
type Report struct {
	// Diagnostics are sorted by position
	Diagnostics []Diagnostic
	// Calls is the number of call expressions that were inspected
	Calls int
}

// Checker checks python sources according to a Config. A Checker may be used
// concurrently; each check runs its own analysis. The config is fixed when the
// checker is created since it seeds the keys of cached reports.
type Checker struct {
	config Config
	seed   uint64
	cache  *ristretto.Cache
}

// NewChecker validates the config and creates a checker that caches its reports
func NewChecker(config Config) (*Checker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error creating report cache")
	}

	config.Report = append([]string(nil), config.Report...)
	config.Ignore = append([]string(nil), config.Ignore...)
	return &Checker{
		config: config,
		seed:   spooky.Hash64([]byte(config.fingerprint())),
		cache:  cache,
	}, nil
}

// Config gets a copy of the config the checker was created with
func (c *Checker) Config() Config {
	config := c.config
	config.Report = append([]string(nil), config.Report...)
	config.Ignore = append([]string(nil), config.Ignore...)
	return config
}

// Close releases the report cache
func (c *Checker) Close() {
	c.cache.Close()
}

// Check parses and analyzes src and diagnoses each of its calls. If the source
// has syntax errors, the report for the parts that could be parsed is returned
// along with the error; such reports are not cached.
func (c *Checker) Check(ctx kitectx.Context, src []byte) (Report, error) {
	ctx.CheckAbort()

	key := spooky.Hash64Seed(src, c.seed)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(Report), nil
	}

	mod, parseErr := c.parse(ctx, src)
	if mod == nil {
		return Report{}, errors.Wrapf(parseErr, "unable to parse source")
	}
	if parseErr != nil {
		ctx.Logger.Debugf("pythoncheck: checking partial parse: %v\n", parseErr)
	}

	report := c.check(ctx, src, mod)
	if parseErr != nil {
		return report, errors.Wrapf(parseErr, "syntax errors")
	}

	c.cache.Set(key, report, 1)
	return report, nil
}

func (c *Checker) parse(ctx kitectx.Context, src []byte) (*pythonast.Module, error) {
	if c.config.TreeSitter {
		return pythontreesitter.Parse(ctx, src)
	}
	return pythonparser.Parse(ctx, src, pythonparser.Options{ErrorMode: pythonparser.Recover})
}

func (c *Checker) check(ctx kitectx.Context, src []byte, mod *pythonast.Module) Report {
	analysis := pythonstatic.Analyze(ctx, mod, pythonstatic.Options{
		Version:        c.config.Version(),
		AllowImplicits: c.config.Implicits,
	})
	rctx := pythoncall.ResolveContext{AllowImplicits: c.config.Implicits}
	lines := newLines(src)

	var report Report
	for _, call := range analysis.Calls() {
		ctx.CheckAbort()
		if c.config.ignores(call) {
			continue
		}
		report.Calls++

		problems, _ := pythoncall.Diagnose(ctx, analysis, call, rctx)
		for _, p := range problems {
			if !c.config.Reports(p.Kind) || pythonast.IsNil(p.Node) {
				continue
			}
			begin, end := int(p.Node.Begin()), int(p.Node.End())
			line, col := lines.lineCol(begin)
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				Kind:    p.Kind,
				Begin:   begin,
				End:     end,
				Line:    line,
				Column:  col,
				Message: p.Message,
			})
		}
	}

	sort.SliceStable(report.Diagnostics, func(i, j int) bool {
		di, dj := report.Diagnostics[i], report.Diagnostics[j]
		if di.Begin != dj.Begin {
			return di.Begin < dj.Begin
		}
		if di.End != dj.End {
			return di.End < dj.End
		}
		return di.Kind < dj.Kind
	})
	return report
}
