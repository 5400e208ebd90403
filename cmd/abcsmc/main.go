// Command abcsmc drives ABC-SMC parameter inference from the command line.
package main

import "github.com/dhelms-lab/abcsmc/cmd/abcsmc/cmd"

func main() {
	cmd.Execute()
}
