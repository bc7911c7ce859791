package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"
)

// profiledl fetches a terrain profile pack into the daemon's data dir, so a
// deployment can pull curated profiles instead of hand-writing YAML.
func main() {
	var (
		base = flag.String("base", "https://github.com/ChangeCaps/terrain-profiles.git", "base url")
		ref  = flag.String("ref", "main", "git ref to fetch")
		sub  = flag.String("dir", "profiles", "subdirectory of the pack holding profile documents")
		out  = flag.String("o", "./data", "data dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("data dir path required")
	}

	if *base == "" {
		panic("base url required")
	}

	dest := filepath.Join(*out, "profiles")

	if err := os.RemoveAll(dest); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading profiles into %s", dest)

	url := fmt.Sprintf("git::%s//%s?ref=%s", *base, *sub, *ref)

	if err := get.Get(dest, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading profiles into %s", dest)
}
