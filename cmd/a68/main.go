package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/a68go/a68go/internal/analyzer"
	"github.com/a68go/a68go/internal/backend"
	"github.com/a68go/a68go/internal/config"
	"github.com/a68go/a68go/internal/lexer"
	"github.com/a68go/a68go/internal/link"
	"github.com/a68go/a68go/internal/objcache"
	"github.com/a68go/a68go/internal/parser"
	"github.com/a68go/a68go/internal/pipeline"
)

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func main() {
	optimize := flag.Bool("O", false, "compile basic units before executing")
	emit := flag.Bool("emit", false, "with -O, write the translation unit to the work directory")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: a68 [-O] [-emit] program%s\n", config.SourceFileExt)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)
	if !isSourceFile(path) {
		fail("%s: not a recognized source file (want %s)", path, strings.Join(config.SourceFileExtensions, ", "))
	}
	source, err := os.ReadFile(path)
	if err != nil {
		fail("%v", err)
	}

	ctx := pipeline.NewPipelineContext(string(source))
	ctx.FilePath = path
	ctx.Optimize = *optimize

	var be backend.Backend
	var opts *link.Options
	if *optimize {
		var lerr error
		opts, lerr = link.LoadOptions(filepath.Dir(path))
		if lerr != nil {
			fail("%v", lerr)
		}
		cache := objcache.Open(opts.CacheDir)
		defer cache.Close()
		opt := backend.NewOptimizing()
		opt.Memo = cache
		be = opt
	} else {
		be = backend.NewTreeWalk()
	}

	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
		backend.NewExecutionProcessor(be),
	)
	ctx = p.Run(ctx)

	if *optimize && *emit && len(ctx.EmittedSource) > 0 {
		if out, werr := link.New(opts).Write(ctx.EmittedSource); werr != nil {
			fmt.Fprintln(os.Stderr, paint(werr.Error()))
		} else if out != "" {
			fmt.Fprintln(os.Stderr, "wrote "+out)
		}
	}

	if len(ctx.Errors) > 0 {
		for _, derr := range ctx.Errors {
			fmt.Fprintln(os.Stderr, paint(derr.Error()))
		}
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, paint(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// paint reddens diagnostics on interactive terminals.
func paint(msg string) string {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return "\x1b[31m" + msg + "\x1b[0m"
	}
	return msg
}
