// internal/config/constants.go
package config

import "time"

const (
	AppName    = "FlightDeck"
	AppVersion = "1.0.0"
)

const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultAccessTokenTTL = 24 * time.Hour
)

// MinAirportsForQuiz is the floor for question generation: one subject plus
// three distractors.
const MinAirportsForQuiz = 4
