package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompt writes a yes/no question to w and reads the answer from r. Only an
// explicit "y" or "yes" (case-insensitive) confirms; anything else, including
// EOF, declines. Used to guard destructive operations.
func Prompt(r io.Reader, w io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s (y/N): ", question); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
