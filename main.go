package main

import (
	"github.com/alecthomas/kong"

	"droscher.com/BreweryFinder/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Brewery Finder"), kong.Description("BreweryFinder is a brewery and beer directory service."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
