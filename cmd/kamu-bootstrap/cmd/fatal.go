package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/stevedipaola/f-kamu-cli/pkg/kamu"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// used to patch over the external tool runner during test
	toolRunner kamu.Runner

	// infoLogger wraps informative messages to os.Stdout without cluttering expected output in tests.
	// To be used instead of fmt.Printf(os.Stdout, ...)
	infoLogger = log.New(os.Stdout, "", 0)
	logStdOut  = fmt.Printf
)

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
	}
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}
