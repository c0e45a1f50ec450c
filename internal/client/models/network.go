package models

// Reachability is the tri-state internet reachability reported by the
// platform: it may not be known yet even when an interface is connected.
type Reachability int

const (
	ReachabilityUnknown Reachability = iota
	Reachable
	Unreachable
)

func (r Reachability) String() string {
	switch r {
	case Reachable:
		return "reachable"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// NetworkStatus is recomputed on every connectivity event.
type NetworkStatus struct {
	Connected         bool
	InternetReachable Reachability
	TransportType     string
}

// Online is true when connected and the internet is known to be
// reachable. Unknown reachability counts as offline.
func (s NetworkStatus) Online() bool {
	return s.Connected && s.InternetReachable == Reachable
}
