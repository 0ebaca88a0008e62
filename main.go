package main

import "github.com/funnelform/leadlens/cmd"

func main() {
	cmd.Execute()
}
