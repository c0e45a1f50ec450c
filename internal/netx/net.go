// Package netx inspects the host's network interfaces.
package netx

import (
	"net"
	"strings"
)

const (
	TransportWiFi     = "wifi"
	TransportEthernet = "ethernet"
	TransportCellular = "cellular"
	TransportOther    = "other"
)

// Interface is the part of net.Interface the connectivity checks need.
type Interface struct {
	Name  string
	Flags net.Flags
	// HasAddr is true when at least one unicast address is assigned.
	HasAddr bool
}

// Lister returns the interfaces to inspect. SystemInterfaces is the default.
type Lister func() ([]Interface, error)

// SystemInterfaces lists the host interfaces through package net.
func SystemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(ifaces))
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		out = append(out, Interface{
			Name:    ifc.Name,
			Flags:   ifc.Flags,
			HasAddr: err == nil && len(addrs) > 0,
		})
	}
	return out, nil
}

// Usable reports whether ifc can carry traffic off the host.
func (ifc Interface) Usable() bool {
	return ifc.Flags&net.FlagUp != 0 &&
		ifc.Flags&net.FlagLoopback == 0 &&
		ifc.HasAddr
}

// ActiveTransport returns the transport type of the first usable interface,
// preferring wifi and ethernet over cellular and anything else. ok is false
// when no interface is usable.
func ActiveTransport(ifaces []Interface) (transport string, ok bool) {
	rank := map[string]int{TransportWiFi: 0, TransportEthernet: 1, TransportCellular: 2, TransportOther: 3}
	best := ""
	for _, ifc := range ifaces {
		if !ifc.Usable() {
			continue
		}
		t := ClassifyInterface(ifc.Name)
		if best == "" || rank[t] < rank[best] {
			best = t
		}
	}
	return best, best != ""
}

// ClassifyInterface guesses the transport type from an interface name.
func ClassifyInterface(name string) string {
	n := strings.ToLower(name)
	switch {
	case hasAnyPrefix(n, "wl", "wifi", "ath", "ra"):
		return TransportWiFi
	case hasAnyPrefix(n, "eth", "en", "em", "eno", "ens", "enp"):
		return TransportEthernet
	case hasAnyPrefix(n, "wwan", "rmnet", "ppp", "pdp_ip", "ccmni"):
		return TransportCellular
	default:
		return TransportOther
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
