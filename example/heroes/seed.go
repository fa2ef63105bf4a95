package main

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const createHeroesTable = `CREATE TABLE %s (
	id uuid PRIMARY KEY,
	name text NOT NULL,
	power text NOT NULL,
	alter_ego text NOT NULL,
	state text NOT NULL,
	age integer NOT NULL,
	birthday date NOT NULL,
	status text NOT NULL
)`

type hero struct {
	name     string
	power    string
	alterEgo string
	state    string
	birthday time.Time
	status   string
}

func demoHeroes() []hero {
	day := func(year int, month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}

	return []hero{
		{"Bolt", "Lightning", "Mark Henry", "Massachusetts", day(1996, time.March, 3), "ACTIVE"},
		{"Thunderbolt", "Storm", "James Morrison", "Connecticut", day(1983, time.July, 14), "ACTIVE"},
		{"Night Owl", "Stealth", "Dan Dreiberg", "Rhode Island", day(1972, time.January, 30), "RETIRED"},
		{"Frost", "Ice", "Caitlin Snow", "Maine", day(1991, time.December, 1), "ACTIVE"},
		{"Blaze", "Fire", "Johnny Blaze", "Vermont", day(1989, time.May, 21), "MISSING"},
		{"Quicksilver", "Speed", "Pietro James", "Massachusetts", day(2005, time.September, 9), "ACTIVE"},
		{"Atlas", "Strength", "Erik Josten", "New Hampshire", day(1960, time.April, 2), "RETIRED"},
		{"Aurora", "Light", "Jeanne-Marie Beaubier", "Connecticut", day(1997, time.June, 17), "ACTIVE"},
	}
}

// ageAt returns the age in full years on the given date.
func ageAt(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}

	return age
}

// buildSeedInsert builds a prepared INSERT statement for heroes into table.
func buildSeedInsert(table string, heroes []hero, now time.Time) (string, []any, error) {
	rows := make([]any, 0, len(heroes))

	for _, h := range heroes {
		id, err := uuid.NewV7()
		if err != nil {
			return "", nil, err
		}

		rows = append(rows, goqu.Record{
			"id":        id.String(),
			"name":      h.name,
			"power":     h.power,
			"alter_ego": h.alterEgo,
			"state":     h.state,
			"age":       ageAt(h.birthday, now),
			"birthday":  h.birthday,
			"status":    h.status,
		})
	}

	return goqu.Dialect("postgres").
		Insert(goqu.T(table)).
		Prepared(true).
		Rows(rows...).
		ToSQL()
}

// seedHeroes recreates the hero table and fills it with the demo heroes.
func seedHeroes(ctx context.Context, cfg Config) error {
	pool, err := newPGXPool(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	quoted := pgx.Identifier{cfg.TableName}.Sanitize()

	if _, err = pool.Exec(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return err
	}

	if _, err = pool.Exec(ctx, fmt.Sprintf(createHeroesTable, quoted)); err != nil {
		return err
	}

	insertSQL, args, err := buildSeedInsert(cfg.TableName, demoHeroes(), time.Now())
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, insertSQL, args...)

	return err
}
