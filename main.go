package main

import (
	"github.com/mj1618/rigi-cli/cmd"

	_ "github.com/mj1618/rigi-cli/internal/platform/snapshotfile"
)

func main() {
	cmd.Execute()
}
