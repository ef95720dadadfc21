package gamemigrations

import "github.com/uptrace/bun/migrate"

// Migrations depend on the players table, so run player migrations first.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
