package ephemeris

import "math"

// Sign is a tropical zodiac sign.
type Sign string

// Zodiac signs in ecliptic order from 0 degrees.
const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

var signs = [...]Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// SignOf returns the sign containing an ecliptic longitude (30 degree bins).
func SignOf(longitude float64) Sign {
	return signs[SignIndex(longitude)]
}

// SignIndex returns the 0-based sign index for a longitude, Aries = 0.
func SignIndex(longitude float64) int {
	return int(math.Floor(Normalize(longitude)/30)) % len(signs)
}
