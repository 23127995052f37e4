package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Estatisticas(ctx context.Context) error
	AtivarCreditos(ctx context.Context) error
	IniciarCreditos(ctx context.Context) error
	Dashboard(ctx context.Context) error
	RegistrarClick(ctx context.Context) error
	UploadAvatar(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the CICLONE operator CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//   - help           show available commands
//   - login          authenticate against the server
//   - stats          print aggregate platform statistics
//   - ativar         re-enable credit reception for an account
//   - iniciar        bootstrap the credit rotation
//   - dashboard      show an account and its click counters (requires login)
//   - click          credit one click on behalf of an account
//   - avatar         upload an avatar image (requires login)
//   - exit | quit    leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ciclone %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: stats, ativar, iniciar, dashboard, click, avatar, exit")
			} else {
				printlnFn("Available commands: login, stats, ativar, iniciar, click, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "stats", "estatisticas":
			_ = a.Estatisticas(ctx)

		case "ativar":
			_ = a.AtivarCreditos(ctx)

		case "iniciar":
			_ = a.IniciarCreditos(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "click":
			_ = a.RegistrarClick(ctx)

		case "avatar":
			_ = a.UploadAvatar(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
