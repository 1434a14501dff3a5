// lossplot - Training Loss Plotter
//
// lossplot reads model-training logs and draws training and validation loss
// against step and against elapsed time, one color per log file.
package main

import (
	"os"

	"github.com/ccollicutt/lossplot/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
