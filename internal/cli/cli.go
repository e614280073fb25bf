package cli

import (
	"fmt"
	"strings"

	"cammanager/internal/commands"
	"cammanager/internal/version"
)

func Run(args []string) int {
	if len(args) < 2 {
		return commands.RunServe(nil)
	}

	switch args[1] {
	case "-h", "--help", "help":
		fmt.Println(usage())
		return 0
	case "-v", "--version", "version":
		fmt.Printf("cammanager %s\n", version.Version)
		return 0
	case "reset-password":
		return commands.ResetPassword(args[2:])
	default:
		// everything else is passed to serve
		return commands.RunServe(args[1:])
	}
}

func usage() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "CamManager - security camera inventory dashboard")
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Usage:")
	fmt.Fprintln(b, "  cammanager [flags]              start the web dashboard")
	fmt.Fprintln(b, "  cammanager <command> [args]")
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Flags:")
	fmt.Fprintln(b, "  -p, --port PORT       listen port")
	fmt.Fprintln(b, "  -b, --bind ADDR       bind address (default 0.0.0.0)")
	fmt.Fprintln(b, "      --user USER       bootstrap an admin account on startup")
	fmt.Fprintln(b, "      --password PASS   password for the bootstrap account")
	fmt.Fprintln(b, "      --debug           enable debug mode")
	fmt.Fprintln(b, "  -h, --help            show help")
	fmt.Fprintln(b, "  -v, --version         show version")
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Commands:")
	fmt.Fprintln(b, "  reset-password <user> <pass>   reset a user's password")
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Examples:")
	fmt.Fprintln(b, "  cammanager                     # start the dashboard")
	fmt.Fprintln(b, "  cammanager -p 9090 -b 0.0.0.0  # custom port and bind address")
	fmt.Fprintln(b, "  cammanager reset-password admin newpass")
	return b.String()
}
