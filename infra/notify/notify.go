package notify

import "github.com/labstack/gommon/log"

// Channel delivers an already-rendered message to a house's resident.
// Message formatting and the actual delivery transport live outside this
// core; this package only provides the port and a log-backed default.
type Channel interface {
	Notify(houseNumber int, message string) error
}

type logChannel struct{}

// NewLogChannel returns a Channel that writes notices to the service log.
func NewLogChannel() Channel {
	return logChannel{}
}

func (logChannel) Notify(houseNumber int, message string) error {
	log.Infof("[Notify] house %d: %s", houseNumber, message)
	return nil
}
