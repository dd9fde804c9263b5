package main

import "github.com/swingscan/scanrun/cmd"

func main() {
	cmd.Execute()
}
