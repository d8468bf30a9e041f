package pythoncheck

import (
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/errors"
	yaml "gopkg.in/yaml.v2"
)

// allKinds lists every problem kind the checker knows how to report
var allKinds = []pythoncall.ProblemKind{
	pythoncall.UnresolvedCallee,
	pythoncall.AmbiguousCallee,
	pythoncall.MissingArgument,
	pythoncall.UnexpectedArgument,
}

// Config controls which call problems are reported and how sources are analyzed.
// It is usually loaded from a YAML file such as:
//
//	language: python3
//	report: [missing_argument, unexpected_argument]
//	ignore: [print, logging.debug]
//	implicits: false
//	treesitter: false
type Config struct {
	// Language is "python2" or "python3"
	Language string `yaml:"language"`
	// Report lists the names of the problem kinds to report
	Report []string `yaml:"report"`
	// Ignore lists callees whose calls are not checked. A dotted entry matches
	// the callee as written, e.g. "logging.debug", and an undotted entry
	// matches the last component of the callee, e.g. "debug".
	Ignore []string `yaml:"ignore"`
	// Implicits allows resolving attributes of unknown values by looking them
	// up across the classes of the module
	Implicits bool `yaml:"implicits"`
	// TreeSitter selects the tree-sitter front end instead of pythonparser
	TreeSitter bool `yaml:"treesitter"`
}

// DefaultConfig reports argument problems and leaves unresolved and
// ambiguous callees alone, since those are common in code with dynamic imports.
func DefaultConfig() Config {
	return Config{
		Language: pythontype.Python3.String(),
		Report: []string{
			pythoncall.MissingArgument.String(),
			pythoncall.UnexpectedArgument.String(),
		},
	}
}

// ParseConfig reads a YAML config. Fields that are absent keep their defaults.
func ParseConfig(buf []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(buf, &config); err != nil {
		return Config{}, errors.Wrapf(err, "error parsing config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// LoadConfig reads a YAML config from a file
func LoadConfig(path string) (Config, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "error reading config %s", path)
	}
	config, err := ParseConfig(buf)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return config, nil
}

// Validate checks the language and the names of the problem kinds
func (c Config) Validate() error {
	var errs errors.Errors
	if _, err := parseVersion(c.Language); err != nil {
		errs = errors.Append(errs, err)
	}
	for _, name := range c.Report {
		if _, ok := kindNamed(name); !ok {
			errs = errors.Append(errs, errors.Errorf("unknown problem kind %q", name))
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}

// Version gets the language level of the analyzed sources
func (c Config) Version() pythontype.Version {
	v, err := parseVersion(c.Language)
	if err != nil {
		return pythontype.Python3
	}
	return v
}

// Reports returns true if problems of the given kind are reported
func (c Config) Reports(kind pythoncall.ProblemKind) bool {
	for _, name := range c.Report {
		if name == kind.String() {
			return true
		}
	}
	return false
}

func (c Config) ignores(call *pythonast.CallExpr) bool {
	var dotted, names []string
	for _, name := range c.Ignore {
		if strings.Contains(name, ".") {
			dotted = append(dotted, name)
		} else {
			names = append(names, name)
		}
	}
	return pythoncall.IsCallee(call, dotted...) || pythoncall.IsCalleeText(call, names...)
}

// fingerprint is a canonical representation of the fields that affect a report
func (c Config) fingerprint() string {
	reports := append([]string(nil), c.Report...)
	sort.Strings(reports)
	ignores := append([]string(nil), c.Ignore...)
	sort.Strings(ignores)
	return fmt.Sprintf("%s|%s|%s|%t|%t", c.Version(), strings.Join(reports, ","), strings.Join(ignores, ","), c.Implicits, c.TreeSitter)
}

func parseVersion(language string) (pythontype.Version, error) {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "3", "python3", "py3":
		return pythontype.Python3, nil
	case "2", "python2", "py2":
		return pythontype.Python2, nil
	}
	return 0, errors.Errorf("unknown language %q", language)
}

func kindNamed(name string) (pythoncall.ProblemKind, bool) {
	for _, k := range allKinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
