package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/feederco/innobackup-showinfo/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		versionFlag := flag.Bool("version", false, "Show current version with format: version\\ncommit\\ndate")
		flag.Parse()

		if *versionFlag {
			fmt.Printf("%s\n%s\n%s\n", version, commit, date)
			return
		}
	}

	os.Exit(cmd.Begin(os.Args))
}
