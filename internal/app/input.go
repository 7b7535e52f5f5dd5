package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

var (
	ErrPasswordMismatch = errors.New("your passwords didn't match")
	ErrBlankPassword    = errors.New("blank passwords aren't allowed")
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func stdinFd() int { return int(os.Stdin.Fd()) }

// getPassword prints prompt to w and reads a password without echo.
// The returned byte slice should be wiped by the caller.
func getPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(stdinFd())
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// getNewPassword asks for a password twice and returns it when both
// entries match and are non-blank.
func getNewPassword(w io.Writer) (string, error) {
	first, err := getPassword(w, "Password: ")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(first)

	second, err := getPassword(w, "Password (again): ")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		return "", ErrPasswordMismatch
	}
	if len(first) == 0 {
		return "", ErrBlankPassword
	}
	return string(first), nil
}
