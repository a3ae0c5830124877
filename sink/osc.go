package sink

import (
	"net"
	"strconv"

	"github.com/hypebeast/go-osc/osc"
)

// BeatAddress is the OSC address beats are broadcast on.
const BeatAddress = "/pulse/beat"

// OSCSink broadcasts each beat as an OSC message over UDP so external
// visualizers can stay in step.
type OSCSink struct {
	client  *osc.Client
	count   int64
	healthy bool
}

// NewOSCSink creates a sink sending to the given "host:port" address.
func NewOSCSink(addr string) (*OSCSink, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}
	return &OSCSink{
		client:  osc.NewClient(host, port),
		healthy: true,
	}, nil
}

func (s *OSCSink) PlayBeat() error {
	s.count++
	msg := osc.NewMessage(BeatAddress)
	msg.Append(int32(s.count))
	if err := s.client.Send(msg); err != nil {
		s.healthy = false
		return err
	}
	return nil
}

func (s *OSCSink) Healthy() bool {
	return s.healthy
}

func (s *OSCSink) Close() error {
	return nil
}
