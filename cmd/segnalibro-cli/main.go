package main

import "segnalibro/cmd/segnalibro-cli/cmd"

func main() {
	cmd.Execute()
}
