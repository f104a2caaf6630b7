package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// confirmIn is the prompt input stream, replaceable in tests.
var confirmIn io.Reader = os.Stdin

// confirm asks the user a yes/no question. --yes answers every prompt
// affirmatively; anything other than y/yes declines.
func confirm(prompt string) bool {
	if yesFlag {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	if _, err := fmt.Fscanln(confirmIn, &response); err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
