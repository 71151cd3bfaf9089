package main

import "github.com/matchcenter/yallakora-scraper/internal/cli"

func main() {
	cli.Execute()
}
