// cubesolver - virtual 3x3x3 puzzle with solver validation.
package main

import (
	"github.com/SeamusWaldron/cubesolver/internal/cli"
)

func main() {
	cli.Execute()
}
