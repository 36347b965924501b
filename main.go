package main

import "github.com/notargets/ingest/cmd"

func main() {
	cmd.Execute()
}
