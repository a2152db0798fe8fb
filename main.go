package main

import "github.com/naka-gawa/git-worklog/cmd"

func main() {
	cmd.Execute()
}
