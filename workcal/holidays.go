package workcal

import "time"

// Canton is a two-letter Swiss canton code.
type Canton string

const (
	CantonVD Canton = "VD"
	CantonGE Canton = "GE"
	CantonNE Canton = "NE"
	CantonFR Canton = "FR"
	CantonVS Canton = "VS"
	CantonBE Canton = "BE"
	CantonJU Canton = "JU"
)

// Holidays returns the public holidays observed in the canton for the year,
// keyed by date. Unknown cantons fall back to the federal set.
func Holidays(year int, canton Canton) map[Date]string {
	out := map[Date]string{
		NewDate(year, time.January, 1):  "Nouvel An",
		NewDate(year, time.August, 1):   "Fête nationale",
		NewDate(year, time.December, 25): "Noël",
	}

	easter := EasterSunday(year)
	out[easter.AddDays(39)] = "Ascension"

	goodFriday := easter.AddDays(-2)
	easterMonday := easter.AddDays(1)
	whitMonday := easter.AddDays(50)
	corpusChristi := easter.AddDays(60)

	switch canton {
	case CantonVD:
		out[NewDate(year, time.January, 2)] = "2 janvier"
		out[goodFriday] = "Vendredi saint"
		out[easterMonday] = "Lundi de Pâques"
		out[whitMonday] = "Lundi de Pentecôte"
		out[FederalFastMonday(year)] = "Lundi du Jeûne fédéral"
	case CantonGE:
		out[goodFriday] = "Vendredi saint"
		out[easterMonday] = "Lundi de Pâques"
		out[whitMonday] = "Lundi de Pentecôte"
		out[JeuneGenevois(year)] = "Jeûne genevois"
		out[NewDate(year, time.December, 31)] = "Restauration de la République"
	case CantonNE:
		out[NewDate(year, time.March, 1)] = "Instauration de la République"
		out[goodFriday] = "Vendredi saint"
		out[easterMonday] = "Lundi de Pâques"
		out[NewDate(year, time.May, 1)] = "Fête du travail"
		out[whitMonday] = "Lundi de Pentecôte"
	case CantonFR:
		out[goodFriday] = "Vendredi saint"
		out[easterMonday] = "Lundi de Pâques"
		out[whitMonday] = "Lundi de Pentecôte"
		out[corpusChristi] = "Fête-Dieu"
		out[NewDate(year, time.August, 15)] = "Assomption"
		out[NewDate(year, time.November, 1)] = "Toussaint"
	case CantonVS:
		out[NewDate(year, time.March, 19)] = "Saint-Joseph"
		out[corpusChristi] = "Fête-Dieu"
		out[NewDate(year, time.August, 15)] = "Assomption"
		out[NewDate(year, time.November, 1)] = "Toussaint"
		out[NewDate(year, time.December, 8)] = "Immaculée Conception"
	case CantonBE:
		out[NewDate(year, time.January, 2)] = "2 janvier"
		out[goodFriday] = "Vendredi saint"
		out[easterMonday] = "Lundi de Pâques"
		out[whitMonday] = "Lundi de Pentecôte"
		out[NewDate(year, time.December, 26)] = "Saint-Etienne"
	case CantonJU:
		out[goodFriday] = "Vendredi saint"
		out[easterMonday] = "Lundi de Pâques"
		out[NewDate(year, time.May, 1)] = "Fête du travail"
		out[whitMonday] = "Lundi de Pentecôte"
		out[corpusChristi] = "Fête-Dieu"
		out[NewDate(year, time.June, 23)] = "Fête de l'indépendance"
		out[NewDate(year, time.August, 15)] = "Assomption"
		out[NewDate(year, time.November, 1)] = "Toussaint"
	}

	return out
}

// EasterSunday computes Gregorian Easter using the anonymous computus.
func EasterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDate(year, time.Month(month), day)
}

// FederalFastMonday is the day after the third Sunday of September.
func FederalFastMonday(year int) Date {
	return thirdSundayOfSeptember(year).AddDays(1)
}

// JeuneGenevois is the Thursday after the first Sunday of September.
func JeuneGenevois(year int) Date {
	return firstSundayOfSeptember(year).AddDays(4)
}

func firstSundayOfSeptember(year int) Date {
	first := NewDate(year, time.September, 1)
	offset := (7 - int(first.Weekday())) % 7
	return first.AddDays(offset)
}

func thirdSundayOfSeptember(year int) Date {
	return firstSundayOfSeptember(year).AddDays(14)
}
