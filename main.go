package main

import "github.com/ValentinKolb/timesman/cmd"

func main() {
	cmd.Execute()
}
