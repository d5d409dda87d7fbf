// Command cgt records stock trades and computes their capital gains tax.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/captax/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell for completion.
	completion(commander).Complete("cgt")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// flagValues predicts the values of the flags that have a closed set of values.
var flagValues = map[string]complete.Predictor{
	"config":      predict.Files("*.yaml"),
	"ledger-file": predict.Files("*.jsonl"),
	"html":        predict.Files("*.html"),
	"matching":    predict.Set{"symbol", "global"},
	"ordering":    predict.Set{"sort", "strict", "trust"},
	"loss":        predict.Set{"signed", "carry"},
}

// completion describes the commands and their flags for shell completion.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{Flags: flags(fs)}
	})
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	predictors := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagValues[f.Name]; ok {
			predictors[f.Name] = p
			return
		}
		predictors[f.Name] = predict.Nothing
	})
	return predictors
}
