package main

import "github.com/naka-gawa/repo-miner/cmd"

func main() {
	cmd.Execute()
}
