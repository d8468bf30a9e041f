package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonparser"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonstatic"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/kr/pretty"
)

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

type binding struct {
	Argument  string `json:"argument"`
	Parameter string `json:"parameter"`
}

type callMapping struct {
	Call       string    `json:"call"`
	Begin      int       `json:"begin"`
	End        int       `json:"end"`
	Callee     string    `json:"callee,omitempty"`
	Modifier   string    `json:"modifier,omitempty"`
	Offset     int       `json:"offset"`
	Bindings   []binding `json:"bindings"`
	Unfilled   []string  `json:"unfilled"`
	Unexpected []string  `json:"unexpected"`
}

func describe(ctx kitectx.Context, src []byte, a *pythonstatic.Analysis, call *pythonast.CallExpr, rctx pythoncall.ResolveContext) callMapping {
	text := func(n pythonast.Node) string { return string(src[n.Begin():n.End()]) }

	out := callMapping{
		Call:  text(call),
		Begin: int(call.Begin()),
		End:   int(call.End()),
	}

	m := pythoncall.MapArguments(ctx, a, call, rctx, 0)
	if m.Callee == nil {
		return out
	}
	out.Callee = m.Callee.Callable.QualifiedName()
	out.Modifier = m.Callee.Modifier.String()
	out.Offset = m.Callee.ImplicitOffset

	for _, b := range m.Bindings {
		out.Bindings = append(out.Bindings, binding{
			Argument:  text(b.Argument.Value),
			Parameter: b.Parameter.String(),
		})
	}
	for _, p := range m.UnmappedParameters {
		out.Unfilled = append(out.Unfilled, p.String())
	}
	for _, u := range m.UnmappedArguments {
		out.Unexpected = append(out.Unexpected, text(u.Node))
	}
	return out
}

func main() {
	args := struct {
		File      string `arg:"positional,required" help:"python source file"`
		JSON      bool   `help:"print one JSON object per call"`
		Implicits bool   `help:"resolve attributes of unknown values across the classes of the module"`
		Py2       bool   `help:"analyze the source as python 2"`
		Debug     bool   `help:"dump each mapping"`
	}{}
	arg.MustParse(&args)

	src, err := ioutil.ReadFile(args.File)
	fail(err)

	ctx := kitectx.Background()
	mod, err := pythonparser.Parse(ctx, src, pythonparser.Options{ErrorMode: pythonparser.Recover})
	if mod == nil {
		log.Fatalln(err)
	}
	if err != nil {
		log.Printf("%s: %v\n", args.File, err)
	}

	opts := pythonstatic.DefaultOptions
	opts.AllowImplicits = args.Implicits
	if args.Py2 {
		opts.Version = pythontype.Python2
	}
	analysis := pythonstatic.Analyze(ctx, mod, opts)
	rctx := pythoncall.ResolveContext{AllowImplicits: args.Implicits}

	enc := json.NewEncoder(os.Stdout)
	for _, call := range analysis.Calls() {
		m := describe(ctx, src, analysis, call, rctx)
		switch {
		case args.JSON:
			fail(enc.Encode(m))
		case args.Debug:
			pretty.Println(m)
		default:
			if m.Callee == "" {
				fmt.Printf("%d:%d %s -> unresolved\n", m.Begin, m.End, m.Call)
				continue
			}
			fmt.Printf("%d:%d %s -> %s (%s, offset %d)\n", m.Begin, m.End, m.Call, m.Callee, m.Modifier, m.Offset)
			for _, b := range m.Bindings {
				fmt.Printf("\t%s = %s\n", b.Parameter, b.Argument)
			}
			for _, p := range m.Unfilled {
				fmt.Printf("\tunfilled %s\n", p)
			}
			for _, a := range m.Unexpected {
				fmt.Printf("\tunexpected %s\n", a)
			}
		}
	}
}
