package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&etfCmd{app: app}, "reports")
	c.Register(&portfolioCmd{app: app}, "reports")
	c.Register(&scheduleCmd{app: app}, "reports")
	c.Register(&columnsCmd{app: app}, "tools")
	c.Register(&topicCmd{app: app}, "help")
}
