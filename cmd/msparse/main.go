/*
Msparse parses English source text into an XML-rendered parse tree, or
inspects a single word's lexicon entry.

Usage:

	msparse [flags] [FILE]
	msparse lex WORD [flags]
	msparse serve [flags]
	msparse repl [flags]

The flags are:

	-v, --version
		Give the current version and exit.

	-t, --table FILE
		Use the given serialized lexicon/rule-table file. Defaults to
		"msp.dat" in the current working directory.

	-l, --loc
		Include source-location attributes in the rendered XML.

	-c, --config FILE
		Load defaults for --table, trace output, and the "serve"
		subcommand's bind address/API key/rate-log path from a TOML
		config file. Explicit flags always override the file.

With no FILE, msparse reads from stdin. The "lex" subcommand prints a
word's properties, definition, and syntax class without running the
parse pipeline, and does not require a table file with rule data (an
unrecognized word is still resolved via morphological-variant analysis).
The "serve" subcommand exposes the parser over HTTP instead of reading
from stdin or a file; see internal/httpapi. The "repl" subcommand reads
one sentence at a time from an interactive readline prompt and prints
its rendered parse immediately, rather than consuming a whole file or
stdin stream.
*/
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/AlCramer/msparse"
	"github.com/AlCramer/msparse/internal/config"
	"github.com/AlCramer/msparse/internal/httpapi"
	"github.com/AlCramer/msparse/internal/httpapi/auth"
	"github.com/AlCramer/msparse/internal/httpapi/ratelog"
	"github.com/AlCramer/msparse/internal/lex"
	"github.com/AlCramer/msparse/internal/serial"
	"github.com/AlCramer/msparse/internal/trace"
	"github.com/AlCramer/msparse/internal/xmlout"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitParseError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	tableFile   *string = pflag.StringP("table", "t", "", "The serialized lexicon/rule-table file to load")
	withLoc     *bool   = pflag.BoolP("loc", "l", false, "Include source-location attributes in rendered XML")
	configFile  *string = pflag.StringP("config", "c", "", "Optional TOML config file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Println(msparse.Version)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if *tableFile != "" {
		cfg.TableFile = *tableFile
	}

	args := pflag.Args()
	if len(args) >= 1 && args[0] == "serve" {
		runServe(cfg)
		return
	}
	if len(args) >= 1 && args[0] == "repl" {
		runRepl(cfg, *withLoc)
		return
	}
	if len(args) >= 2 && args[0] == "lex" {
		runLex(cfg.TableFile, args[1])
		return
	}

	p, err := loadParser(cfg.TableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	p.Trace = nil

	var in *os.File = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer f.Close()
		in = f
	}

	eng := msparse.NewEngine(p, os.Stdout)
	eng.SetLocationTracking(*withLoc)
	if cfg.TracePath != "" {
		traceOut, err := os.Create(cfg.TracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not open trace file: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer traceOut.Close()
		eng.SetTraceSink(trace.NewWriter(traceOut))
	}
	defer eng.Close()

	n, err := eng.ParseReader(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: after %d section(s): %s\n", n, err.Error())
		returnCode = ExitParseError
		return
	}
}

func runServe(cfg config.Config) {
	p, err := loadParser(cfg.TableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	api := &httpapi.API{Parser: p, Sink: trace.Discard}

	if cfg.TracePath != "" {
		traceOut, err := os.Create(cfg.TracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not open trace file: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer traceOut.Close()
		api.Sink = trace.NewWriter(traceOut)
	}

	if cfg.Server.APIKey != "" {
		guard, err := auth.NewGuard(cfg.Server.APIKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		api.Guard = guard
	}

	if cfg.Server.RateLogPath != "" {
		rl, err := ratelog.Open(cfg.Server.RateLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer rl.Close()
		api.RateLog = rl
	}

	fmt.Printf("listening on %s\n", cfg.Server.BindAddr)
	if err := http.ListenAndServe(cfg.Server.BindAddr, api.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
	}
}

func runRepl(cfg config.Config, withLoc bool) {
	p, err := loadParser(cfg.TableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	p.Trace = nil

	rl, err := readline.NewEx(&readline.Config{Prompt: "msparse> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		nodes := p.ParseText(line, 1)
		fmt.Print(xmlout.Render(nodes, withLoc))
	}
}

func loadParser(path string) (*msparse.Parser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read table file %q: %w", path, err)
	}
	env, err := serial.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode table file %q: %w", path, err)
	}
	if env.FormatVersion != msparse.Version {
		return nil, fmt.Errorf("table file %q is format version %q, this build expects %q", path, env.FormatVersion, msparse.Version)
	}

	p := msparse.New(lex.New())
	p.Deserialize(serial.NewReader(env.Payload))
	return p, nil
}

func runLex(tableFile, word string) {
	p, err := loadParser(tableFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	lx := p.Lx
	ix := lx.GetVocab(word)
	def := lx.Def(ix)
	fmt.Printf("%q: sc=%s\n", lx.Spelling(ix), lx.ScSpelling(lx.SynClass(ix)))
	if def != ix {
		fmt.Printf("  def: %q\n", lx.Spelling(def))
	}
	fmt.Printf("  props: %s\n", lx.Props(ix).String())
}
