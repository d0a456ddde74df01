// butterworth synthesizes distributed-element Butterworth lowpass filters.
package main

import (
	"os"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
