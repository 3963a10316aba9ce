package devserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Choice is the operator's answer to "close the running instances?".
type Choice int

const (
	ChoiceAsk Choice = iota
	ChoiceYes
	ChoiceNo
	ChoiceQuit
)

// Ask prompts on out until a y, n or q answer is read from in. End of input
// counts as q.
func Ask(in *bufio.Reader, out io.Writer) (Choice, error) {
	for {
		fmt.Fprint(out, "Do you want to close them? (y/n/q): ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return ChoiceQuit, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return ChoiceYes, nil
		case "n":
			return ChoiceNo, nil
		case "q":
			return ChoiceQuit, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return ChoiceQuit, nil
		}
		fmt.Fprintln(out, "Invalid choice. Please enter 'y', 'n', or 'q'.")
	}
}
