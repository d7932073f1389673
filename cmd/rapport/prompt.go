package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/rapport/calendar"
)

// errNoInput is returned when the input ends before a valid answer.
var errNoInput = errors.New("no answer given")

// prompter asks questions on a terminal until it gets a valid answer.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) month() (int, error) {
	return p.askInt("Enter the target month (1=Jan, 12=Dec): ", func(n int) error {
		if n < 1 || n > 12 {
			return errors.New("month must be between 1 and 12")
		}
		return nil
	})
}

func (p *prompter) year(example int) (int, error) {
	q := fmt.Sprintf("Enter the target year (e.g., %d): ", example)
	return p.askInt(q, func(n int) error {
		if n < calendar.MinYear || n > calendar.MaxYear {
			return fmt.Errorf("please enter a year between %d and %d", calendar.MinYear, calendar.MaxYear)
		}
		return nil
	})
}

// askInt repeats question until the answer is an integer accepted by check.
func (p *prompter) askInt(question string, check func(int) error) (int, error) {
	for {
		fmt.Fprint(p.out, question)
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return 0, err
			}
			return 0, errNoInput
		}

		answer := strings.TrimSpace(p.in.Text())
		n, err := strconv.Atoi(answer)
		if err != nil {
			err = fmt.Errorf("%q is not a number", answer)
		} else {
			err = check(n)
		}
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(p.out, "Invalid input. Please try again: %v\n", err)
	}
}
