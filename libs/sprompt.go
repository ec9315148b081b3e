package libs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"

	rbytes "github.com/beatoz/taxpool-go/types/bytes"
	"golang.org/x/crypto/ssh/terminal"
)

var ErrNoTerminal = errors.New("passphrase prompt needs a terminal")

func ClearCredential(c []byte) {
	rbytes.ClearBytes(c)
}

// ReadSecret returns the value of the environment variable `env` if it is set,
// otherwise it prompts for a passphrase.
func ReadSecret(env, prompt string) ([]byte, error) {
	if env != "" {
		if s := os.Getenv(env); s != "" {
			return []byte(s), nil
		}
	}
	return ReadCredential(prompt)
}

// ReadCredential reads a passphrase from the terminal without echo.
func ReadCredential(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}

	initialTermState, err := terminal.GetState(fd)
	if err != nil {
		return nil, err
	}

	// restore the terminal on interrupt.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	done := make(chan struct{})
	defer func() {
		signal.Stop(c)
		close(done)
	}()
	go func() {
		select {
		case <-c:
			_ = terminal.Restore(fd, initialTermState)
			os.Exit(1)
		case <-done:
		}
	}()

	fmt.Print(prompt)
	p, err := terminal.ReadPassword(fd)
	fmt.Println("")
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(p), nil
}
