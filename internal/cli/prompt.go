package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errNoOrder = errors.New("no filter order given: pass --order or enter one on standard input")

// readOrder reads a filter order from the first line of in. The prompt is
// written to out only when in is a terminal.
func readOrder(in io.Reader, out io.Writer, orders string) (int, error) {
	if isTerminal(in) {
		_, _ = fmt.Fprintf(out, "Enter filter order (%s): ", orders)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading filter order: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return 0, errNoOrder
	}

	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("filter order %q is not an integer", line)
	}

	return n, nil
}
