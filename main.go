package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"festcal/config"
)

// countFlag lets -v stack: -v -v turns on per-fetch diagnostics.
type countFlag int

func (c *countFlag) String() string   { return strconv.Itoa(int(*c)) }
func (c *countFlag) Set(string) error { *c++; return nil }
func (c *countFlag) IsBoolFlag() bool { return true }

func usage() {
	fmt.Fprintln(os.Stderr, "usage: festcal [-v]... [-quiet] [-debug] [-stars N] [-loop N] outfile")
	flag.PrintDefaults()
}

func main() {
	var verbose countFlag
	quiet := flag.Bool("quiet", false, "suppress diagnostics")
	debug := flag.Bool("debug", false, "keep every scraped event, bypassing the taste filter")
	stars := flag.Int("stars", 3, "minimum star rating for an artist to count as interesting")
	loop := flag.Int("loop", 1, "showlist passes to run; the site drops rows at random, so extra passes fill gaps")
	flag.Var(&verbose, "v", "increase diagnostic output (repeatable)")
	flag.Var(&verbose, "verbose", "increase diagnostic output (repeatable)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	outfile := flag.Arg(0)

	if *quiet {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "festcal:", err)
		os.Exit(1)
	}

	opts := runOptions{
		Verbose: int(verbose),
		Debug:   *debug,
		Stars:   *stars,
		Loop:    *loop,
		Outfile: outfile,
	}
	if err := run(cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, "festcal:", err)
		os.Exit(1)
	}
}
