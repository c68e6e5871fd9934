package main

import "github.com/frahmantamala/savings/cmd"

func main() {
	cmd.Execute()
}
