package main

import (
	"github.com/trezcool/goose"

	appfs "github.com/trezcool/shule/fs"
)

var gooseRunFunc = goose.RunFS // mockable

// migrate hands the subcommand straight to goose, running against the SQL
// files embedded under fs/migrations.
func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(args[0], cli.db, appfs.FS, "migrations", args[1:]...)
}
