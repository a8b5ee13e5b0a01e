// Command ferrysql is the CLI entry point for FerrySQL.
package main

import (
	"os"

	"github.com/leapstack-labs/ferrysql/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
