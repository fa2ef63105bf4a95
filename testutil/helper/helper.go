package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

// Hero record fields.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldPower    = "power"
	FieldAlterEgo = "alterEgo"
	FieldState    = "state"
	FieldAge      = "age"
	FieldBirthday = "birthday"
	FieldStatus   = "status"
)

// HeroResolver resolves the fields of the hero fixtures.
func HeroResolver() uifilter.StaticFieldResolver {
	return uifilter.StaticFieldResolver{
		FieldID:       uifilter.CategoryOpaque,
		FieldName:     uifilter.CategoryText,
		FieldPower:    uifilter.CategoryText,
		FieldAlterEgo: uifilter.CategoryText,
		FieldState:    uifilter.CategoryText,
		FieldAge:      uifilter.CategoryOrdered,
		FieldBirthday: uifilter.CategoryOrdered,
		FieldStatus:   uifilter.CategoryOpaque,
	}
}

// HeroGlobalAttributes are the attributes a global search over heroes fans out to.
func HeroGlobalAttributes() []string {
	return []string{FieldName, FieldPower, FieldAlterEgo}
}

func GivenUniqueID(t testing.TB) uuid.UUID {
	heroID, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return heroID
}

func FixtureHero(
	t testing.TB,
	name, power, alterEgo, state string,
	age int,
	birthday time.Time,
	status string,
) uifilter.Record {

	return uifilter.Record{
		FieldID:       GivenUniqueID(t),
		FieldName:     name,
		FieldPower:    power,
		FieldAlterEgo: alterEgo,
		FieldState:    state,
		FieldAge:      age,
		FieldBirthday: birthday,
		FieldStatus:   status,
	}
}

// GivenHeroes returns eight heroes, in a fixed order.
func GivenHeroes(t testing.TB) uifilter.Records {
	day := func(year int, month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}

	return uifilter.Records{
		FixtureHero(t, "Bolt", "Lightning", "Mark Henry", "Massachusetts", 28, day(1996, time.March, 3), "ACTIVE"),
		FixtureHero(t, "Thunderbolt", "Storm", "James Morrison", "Connecticut", 41, day(1983, time.July, 14), "ACTIVE"),
		FixtureHero(t, "Night Owl", "Stealth", "Dan Dreiberg", "Rhode Island", 52, day(1972, time.January, 30), "RETIRED"),
		FixtureHero(t, "Frost", "Ice", "Caitlin Snow", "Maine", 33, day(1991, time.December, 1), "ACTIVE"),
		FixtureHero(t, "Blaze", "Fire", "Johnny Blaze", "Vermont", 35, day(1989, time.May, 21), "MISSING"),
		FixtureHero(t, "Quicksilver", "Speed", "Pietro James", "Massachusetts", 19, day(2005, time.September, 9), "ACTIVE"),
		FixtureHero(t, "Atlas", "Strength", "Erik Josten", "New Hampshire", 64, day(1960, time.April, 2), "RETIRED"),
		FixtureHero(t, "Aurora", "Light", "Jeanne-Marie Beaubier", "Connecticut", 27, day(1997, time.June, 17), "ACTIVE"),
	}
}

// Names extracts the name of every record, in order.
func Names(records uifilter.Records) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		name, _ := r[FieldName].(string)
		names = append(names, name)
	}

	return names
}
