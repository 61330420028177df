package monitor

import "time"

type ServiceStatus struct {
	Online  bool   `json:"online"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

type Status struct {
	Services  map[string]ServiceStatus `json:"services"`
	LastCheck time.Time                `json:"last_check"`
}

// Healthy is false before the first reading.
func (s Status) Healthy() bool {
	if s.LastCheck.IsZero() {
		return false
	}
	for _, svc := range s.Services {
		if !svc.Online {
			return false
		}
	}
	return true
}
