package main

import "github.com/spaceandtimelabs/ignite-go/cmd"

func main() {
	cmd.Execute()
}
