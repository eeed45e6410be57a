package main

import (
	"os"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/statementlens/statementlens/internal/commands"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
