// Package main is the main entrypoint to the rainbow application.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rainbowlang/rainbow/src/conf"
	"github.com/rainbowlang/rainbow/src/runtime"
)

var (
	interp      *runtime.Interp
	checkOnly   bool
	showVersion bool
	executeStat string
	interactive bool
	signatures  string
)

func init() {
	flag.BoolVar(&checkOnly, "t", false, "type check only, print the type and effects")
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.StringVar(&executeStat, "e", "", "execute string 'script'")
	flag.BoolVar(&interactive, "i", false, "enter interactive mode after executing a script")
	flag.StringVar(&signatures, "sig", "", "load host function signatures from a YAML file")
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	var err error
	interp, err = runtime.New()
	checkErr(err)
	if signatures != "" {
		checkErr(interp.Registry().LoadFile(signatures))
	}

	args := flag.Args()
	if showVersion {
		printVersion()
	}
	if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		checkErr(err)
		runSrc("<stdin>", string(data))
	} else if executeStat != "" {
		runSrc("<string>", executeStat)
	} else if len(args) == 0 && !showVersion {
		runREPL()
	} else if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		checkErr(err)
		runSrc(args[0], string(data))
	} else if !showVersion {
		printUsage()
	}
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: rainbow [options] [script]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runSrc(path, src string) {
	if checkOnly {
		res, err := interp.Check(path, src)
		checkErr(err)
		checkErr(res.Err())
		fmt.Fprintf(os.Stdout, "%s", res.Output)
		if res.Effects.Len() > 0 {
			fmt.Fprintf(os.Stdout, " %s", res.Effects)
		}
		fmt.Fprintln(os.Stdout)
	} else {
		val, _, err := interp.Run(path, src)
		checkErr(err)
		fmt.Fprintln(os.Stdout, runtime.Render(val))
	}
	if interactive {
		runREPL()
	}
}

func runREPL() {
	fmt.Fprint(os.Stderr, "Press ctrl-c to quit or clear current buffer.\n")
	checkErr(interp.REPL())
}
