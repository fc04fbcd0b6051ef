package cmd

import (
	"fmt"
	"os"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/util"
	"github.com/go-errors/errors"
)

// debugStacks prints a stack with fatal errors, set by --show-debug
var debugStacks bool

func exitWithError(err error) {
	if debugStacks {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, 1).ErrorStack())
	}
	log.Fatal("%v", err)
}

func panicOnError(err error) {
	if err != nil {
		if debugStacks {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, 1).ErrorStack())
		}
		log.Panic("%v", err)
	}
}

func newProgress(debug bool) util.Progress {
	return util.NewProgress(os.Stdout, debug)
}
