package main

import "github.com/naka-gawa/community-stats/cmd"

func main() {
	cmd.Execute()
}
