package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/laluke1/camptrack/storage"
	"github.com/laluke1/camptrack/ui"
)

// maxLoginAttempts bounds the credential prompts per login screen.
const maxLoginAttempts = 3

// Login prompts for credentials and opens a session. Bad credentials allow
// up to three attempts; a disabled account ends the login immediately.
// Passwords are read without echo when input is a terminal.
func Login(store *storage.Store, in io.Reader, out io.Writer) (*Session, error) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "=== Login ===")
	fmt.Fprintln(out, "Enter your credentials...")
	fmt.Fprintln(out)

	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		fmt.Fprint(out, "Username: ")
		if !scanner.Scan() {
			return nil, io.EOF
		}
		username := strings.TrimSpace(scanner.Text())

		password, err := PromptPassword(in, scanner, out, "Password: ")
		if err != nil {
			return nil, err
		}

		session, err := Authenticate(store, username, password)
		if err == nil {
			fmt.Fprintf(out, "\nWelcome, %s. You are logged in as %s.\n\n",
				session.User.Username, RoleWithArticle(session.User.Role))
			return session, nil
		}

		switch {
		case errors.Is(err, ErrAccountDisabled):
			fmt.Fprintln(out, ui.ErrorStyle.Render("Login failed. Your account is disabled."))
			return nil, err
		case errors.Is(err, ErrBadCredentials):
			fmt.Fprintln(out, ui.ErrorStyle.Render("Login failed. Invalid username or password."))
		default:
			return nil, err
		}
	}

	return nil, ErrBadCredentials
}

// Logout prints the farewell for a closing session.
func Logout(session *Session, out io.Writer) {
	ui.ClearScreen(out)
	ui.Header(out, true)
	fmt.Fprintln(out, "Logging out...")
	fmt.Fprintf(out, "Goodbye, %s!\n\n", session.User.Username)
}

// PromptPassword writes the prompt and reads a password. Input is hidden on
// a real terminal and falls back to a plain line read otherwise, such as
// under tests or piped input.
func PromptPassword(in io.Reader, scanner *bufio.Scanner, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	return readPassword(in, scanner, out)
}

func readPassword(in io.Reader, scanner *bufio.Scanner, out io.Writer) (string, error) {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		raw, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	if !scanner.Scan() {
		return "", io.EOF
	}
	return scanner.Text(), nil
}
