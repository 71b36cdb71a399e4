package runtime

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rainbowlang/rainbow/src/conf"
)

const (
	replPrompt         = "> "
	replContinuePrompt = "...> "
)

// REPL runs an interactive session. Input is buffered until it parses as a
// complete script, so terms may span lines; colon commands inspect the
// session without evaluating anything.
func (in *Interp) REPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     "/tmp/rainbow-repl-history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	fmt.Fprintln(rl.Stdout(), conf.FullVersion())
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if buf.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := replCommand(in, rl, strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
		if strings.TrimSpace(buf.String()) == "" {
			buf.Reset()
			continue
		}
		val, res, err := in.Run("repl", buf.String())
		if errors.Is(err, io.EOF) {
			rl.SetPrompt(replContinuePrompt)
			continue
		}
		buf.Reset()
		rl.SetPrompt(replPrompt)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err)
			continue
		}
		fmt.Fprintf(rl.Stdout(), "%s :: %s\n", Render(val), res.Output)
	}
}

func replCommand(in *Interp, rl *readline.Instance, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case ":quit", ":q":
		return true
	case ":type":
		res, err := in.Check("repl", rest)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err)
			return false
		}
		if !res.Ok() {
			for _, cerr := range res.Errors {
				fmt.Fprintln(rl.Stderr(), cerr)
			}
			return false
		}
		fmt.Fprintf(rl.Stdout(), "%s", res.Output)
		if res.Effects.Len() > 0 {
			fmt.Fprintf(rl.Stdout(), " %s", res.Effects)
		}
		fmt.Fprintln(rl.Stdout())
	case ":func", ":funcs":
		if rest == "" {
			fmt.Fprintln(rl.Stdout(), strings.Join(in.Registry().Names(), " "))
			return false
		}
		fn, ok := in.Registry().Lookup(rest)
		if !ok {
			fmt.Fprintf(rl.Stderr(), "no function named %q\n", rest)
			return false
		}
		fmt.Fprintln(rl.Stdout(), fn)
	case ":vars":
		globals := in.Globals()
		names := make([]string, 0, len(globals))
		for name := range globals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(rl.Stdout(), "%s :: %s\n", name, globals[name])
		}
	case ":set":
		name, expr, ok := strings.Cut(rest, " ")
		if !ok {
			fmt.Fprintln(rl.Stderr(), "usage: :set name expression")
			return false
		}
		val, _, err := in.Run("repl", expr)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err)
			return false
		}
		if err := in.SetGlobal(name, val); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
			return false
		}
		fmt.Fprintf(rl.Stdout(), "%s :: %s\n", name, in.Globals()[name])
	case ":help", ":h":
		fmt.Fprintln(rl.Stdout(), ":type expr    show the type and effects of an expression")
		fmt.Fprintln(rl.Stdout(), ":func [name]  list functions, or show one signature")
		fmt.Fprintln(rl.Stdout(), ":vars         list session globals")
		fmt.Fprintln(rl.Stdout(), ":set n expr   evaluate expr and bind it as global n")
		fmt.Fprintln(rl.Stdout(), ":quit         exit")
	default:
		fmt.Fprintf(rl.Stderr(), "unknown command %q, try :help\n", cmd)
	}
	return false
}
