package main

import (
	"os"

	"github.com/pterm/pterm"
)

func main() {
	a := newApp(os.Stdout)
	err := newRootCmd(a).Execute()
	if cerr := a.shutdown(); err == nil {
		err = cerr
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
