package main

import "github.com/ValentinKolb/aggbench/cmd"

func main() {
	cmd.Execute()
}
